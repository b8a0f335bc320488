// Package config holds all lifelog configuration: defaults, an
// optional YAML file, and environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all lifelog configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Notion   NotionConfig   `yaml:"notion"`
	Telegram TelegramConfig `yaml:"telegram"`
	Agent    AgentConfig    `yaml:"agent"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LLMConfig struct {
	Provider    string `yaml:"provider"` // "openai", "ollama"
	Model       string `yaml:"model"`
	OpenAIKey   string `yaml:"openai_key"`
	OllamaURL   string `yaml:"ollama_url"`
	OllamaModel string `yaml:"ollama_model"`
}

type NotionConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	SleepPageID    string `yaml:"sleep_page_id"`
	ExercisePageID string `yaml:"exercise_page_id"`
	WellnessPageID string `yaml:"wellness_page_id"`
	JournalPageID  string `yaml:"journal_page_id"`
	ToDoPageID     string `yaml:"to_do_page_id"`
	ToReadPageID   string `yaml:"to_read_page_id"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"` // the single authorized chat
	// Scheduled jobs.
	CheckinHour int    `yaml:"checkin_hour"` // morning check-in, 0-23
	DigestDay   string `yaml:"digest_day"`   // weekday name, e.g. "sunday"
}

type AgentConfig struct {
	// MaxClarificationTurns is the ceiling on clarification round-trips.
	// Once reached, whatever has been gathered is persisted as-is.
	MaxClarificationTurns int `yaml:"max_clarification_turns"`
	// HistoryTurns is how many prior exchanges the extraction prompt sees.
	HistoryTurns int `yaml:"history_turns"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // "text" | "json"
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 8488,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Telegram: TelegramConfig{
			CheckinHour: 8,
			DigestDay:   "sunday",
		},
		Agent: AgentConfig{
			MaxClarificationTurns: 3,
			HistoryTurns:          5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML config at path (skipped when path is empty or
// missing) on top of the defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides secrets and paths from the environment. Env wins
// over the file so deployments never need keys on disk.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.Provider = "openai"
		c.LLM.OpenAIKey = v
	}
	if v := os.Getenv("NOTION_API_KEY"); v != "" {
		c.Notion.APIKey = v
		c.Notion.Enabled = true
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("LIFELOG_DB"); v != "" {
		c.Database.Path = v
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
