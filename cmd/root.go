package cmd

import (
	"fmt"
	"os"

	"surface-renderer/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "surface-renderer",
	Short: "Surface Renderer Service",
	Long: `Surface Renderer hosts keyed, sectioned views and keeps them in sync with the
content clients submit, applying only the minimal set of changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format and the development config give readable CLI errors
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// cliLogger builds the logger used by offline commands.
func cliLogger() (*zap.Logger, error) {
	return logger.New(&logger.Config{Level: "info", Format: "console"})
}
