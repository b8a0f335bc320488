package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var msgUser string

var msgCmd = &cobra.Command{
	Use:   "msg [text...]",
	Short: "Send one message through the pipeline and print the reply",
	Long: "Runs a single conversational turn against the local database, " +
		"exactly as the bot or the API would. Useful for trying the pipeline " +
		"from a shell.",
	Args: cobra.MinimumNArgs(1),
	RunE: runMsg,
}

func init() {
	msgCmd.Flags().StringVar(&msgUser, "user", "local", "user/thread id to log under")
}

func runMsg(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctrl, db, err := buildController(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	reply, err := ctrl.HandleTurn(context.Background(), msgUser, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("turn failed: %w", err)
	}
	fmt.Println(reply)
	return nil
}
