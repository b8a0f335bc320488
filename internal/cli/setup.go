package cli

import (
	"fmt"

	"github.com/charmbracelet/log"

	"lifelog/internal/config"
	"lifelog/internal/engine"
	"lifelog/internal/llm"
	"lifelog/internal/notion"
	"lifelog/internal/store"
)

// buildController opens the database and wires the full turn pipeline.
// The caller owns closing the returned DB.
func buildController(cfg config.Config, logger *log.Logger) (*engine.Controller, *store.DB, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("configure llm: %w", err)
	}

	var sync engine.DocSync
	if nc := notion.New(cfg.Notion, logger); nc != nil {
		sync = nc
		logger.Info("notion sync enabled")
	}

	ctrl := engine.NewController(db, client, sync, logger)
	ctrl.MaxClarificationTurns = cfg.Agent.MaxClarificationTurns
	ctrl.HistoryTurns = cfg.Agent.HistoryTurns

	logger.Info("pipeline ready", "db", dbPath, "llm", cfg.LLM.Provider, "model", cfg.LLM.Model)
	return ctrl, db, nil
}
