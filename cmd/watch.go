package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"surface-renderer/core/config"
	"surface-renderer/core/logger"
	"surface-renderer/core/render"
	"surface-renderer/core/view"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd re-renders a document every time it changes on disk.
var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Render a surface document on every change and log the applied edits",
	Long: `Watches FILE and renders it into a local surface each time it is written.
Every applied change is logged. Saves arriving while a render is in flight coalesce,
so only the latest content is applied.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	l, err := cliLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	name := filepath.Base(path)
	list := view.NewListView(name)
	sched := render.New(name, view.NewTee(list, l, view.NewLogAdapter(name, l)), l, render.WithConfig(cfg.Render))
	defer sched.Close()

	submit := func() {
		sections, err := loadSections(path)
		if err != nil {
			l.Warn("Document not rendered", zap.Error(err))
			return
		}
		if _, err := sched.Render(sections); err != nil {
			l.Warn("Document rejected", zap.Error(err))
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files instead of writing them, so the directory is watched.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	if _, err := os.Stat(path); err == nil {
		submit()
	}
	logger.WithSurface(l, name).Info("Watching document", zap.String("path", path))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				submit()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Warn("Watcher error", zap.Error(err))
		case <-stop:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := sched.WaitIdle(ctx); err != nil {
				l.Warn("Render still in flight at exit", zap.Error(err))
			}
			st := sched.Status()
			l.Info("Stopped watching",
				zap.Uint64("admitted", st.Admitted),
				zap.Uint64("coalesced", st.Coalesced),
				zap.Uint64("applied", st.Applied),
			)
			return nil
		}
	}
}
