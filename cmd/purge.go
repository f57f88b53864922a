package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"surface-renderer/core/config"
	"surface-renderer/core/logger"
	"surface-renderer/core/storage"
	"surface-renderer/feature/surface/publish"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for purge command
	dryRunPurge bool
	yesConfirm  bool
)

// purgeCmd deletes every published surface document.
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every published surface document from storage",
	Long: `Lists the surface documents published to the configured bucket and deletes them.

Examples:
  # Show what would be deleted
  purge --dry-run

  # Delete with auto-confirm (non-interactive)
  purge --yes`,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().BoolVar(&dryRunPurge, "dry-run", false, "List published surfaces without deleting them")
	purgeCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	RootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	p := publish.New(client, cfg.Storage.Bucket, cfg.Storage.Prefix)

	names, err := p.List(ctx)
	if err != nil {
		return err
	}
	l.Info("Published surfaces", zap.Int("count", len(names)), zap.Strings("names", names))

	if len(names) == 0 || dryRunPurge {
		l.Info("No changes were made.")
		return nil
	}

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	removed, err := p.Purge(ctx)
	l.Info("Purged published surfaces", zap.Int("count", removed))
	return err
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
