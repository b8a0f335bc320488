package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var digestUser string

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print the weekly digest for a user",
	RunE:  runDigest,
}

func init() {
	digestCmd.Flags().StringVar(&digestUser, "user", "local", "user/thread id to summarize")
}

func runDigest(cmd *cobra.Command, args []string) error {
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

	digest, err := ctrl.WeeklyDigest(context.Background(), digestUser)
	if err != nil {
		return err
	}
	fmt.Println(digest)
	return nil
}
