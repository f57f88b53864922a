package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"surface-renderer/core/document"
	"surface-renderer/core/reconcile"
	"surface-renderer/core/view"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for diff command
	diffJSON  bool
	diffApply bool
)

// diffCmd compares two surface documents offline.
var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Compute the edit script between two surface documents",
	Long: `Compare two surface documents (JSON, YAML or TOML, chosen by extension) and report
the minimal edit script that turns OLD into NEW.

Examples:
  # Report summary and a sample of changes
  diff before.yaml after.yaml

  # Print every change in application order as JSON
  diff before.json after.json --json

  # Replay the script on an in-memory view and verify the result
  diff before.toml after.toml --apply`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Print the ordered changes as JSON")
	diffCmd.Flags().BoolVar(&diffApply, "apply", false, "Replay the script on an in-memory view and verify the result")
	RootCmd.AddCommand(diffCmd)
}

func loadSections(path string) ([]reconcile.Section, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	return doc.ToSections()
}

func runDiff(cmd *cobra.Command, args []string) error {
	l, err := cliLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	old, err := loadSections(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}
	next, err := loadSections(args[1])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[1], err)
	}

	if err := reconcile.Validate(old); err != nil {
		return fmt.Errorf("old: %w", err)
	}

	start := time.Now()
	script, err := reconcile.Reconcile(old, next)
	if err != nil {
		return fmt.Errorf("new: %w", err)
	}
	elapsed := time.Since(start)

	if diffJSON {
		changes := script.Changes(next)
		lines := make([]string, len(changes))
		for i, c := range changes {
			lines[i] = c.String()
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"operations": script.Count(),
			"summary":    script.Summary(),
			"changes":    lines,
		}); err != nil {
			return err
		}
	} else {
		printDiffReport(l, script, next, elapsed)
	}

	if !diffApply {
		return nil
	}

	v := view.NewListView("verify")
	ctx := context.Background()
	if err := v.Reload(ctx, nil, old); err != nil {
		return err
	}
	if err := v.Apply(ctx, script, next); err != nil {
		return fmt.Errorf("failed to apply script: %w", err)
	}
	residual, err := reconcile.Reconcile(v.Sections(), next)
	if err != nil {
		return err
	}
	if !residual.IsEmpty() {
		return fmt.Errorf("replayed script does not reproduce %s: %d operations left", args[1], residual.Count())
	}
	l.Info("Script verified", zap.Int("sections", len(next)))
	return nil
}

// printDiffReport prints a formatted diff report using logger.
func printDiffReport(l *zap.Logger, script *reconcile.EditScript, next []reconcile.Section, elapsed time.Duration) {
	s := script.Summary()

	l.Info("Diff report",
		zap.Int("total_operations", s.Total()),
		zap.Duration("elapsed", elapsed),
	)
	if script.IsEmpty() {
		l.Info("Documents are identical")
		return
	}

	l.Info("Sections",
		zap.Int("deletes", s.SectionDeletes),
		zap.Int("inserts", s.SectionInserts),
		zap.Int("moves", s.SectionMoves),
		zap.Int("updates", s.SectionUpdates),
	)
	l.Info("Rows",
		zap.Int("deletes", s.RowDeletes),
		zap.Int("inserts", s.RowInserts),
		zap.Int("moves", s.RowMoves),
		zap.Int("updates", s.RowUpdates),
	)

	// Show sample of changes (max 5 for logger)
	changes := script.Changes(next)
	maxShow := 5
	if len(changes) < maxShow {
		maxShow = len(changes)
	}
	for i := 0; i < maxShow; i++ {
		c := changes[i]
		l.Info("Sample change",
			zap.String("op", string(c.Op)),
			zap.String("level", string(c.Level)),
			zap.String("section", c.SectionKey),
			zap.String("key", c.Key),
			zap.Stringer("change", c),
		)
	}
	if len(changes) > maxShow {
		l.Info("Additional changes not shown", zap.Int("count", len(changes)-maxShow))
	}
}
