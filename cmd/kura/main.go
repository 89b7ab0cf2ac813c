// kura is a terminal console for a remote knowledge-assistant service:
// chat with the assistant, and manage the files, URLs, and users that feed
// its knowledge base.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kuraproj/kura/internal/config"
)

var version = "dev"

var (
	noColor        bool
	serverOverride string
)

var rootCmd = &cobra.Command{
	Use:           "kura",
	Short:         "Console client for the kura knowledge assistant",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&serverOverride, "server", "", "server base URL (overrides config)")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kura version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "kura version %s\n", version)
	},
}

// initLogging configures slog from config. Diagnostic detail goes to
// stderr; it never interrupts the user flow.
func initLogging() {
	level := slog.LevelInfo
	if cfg, err := config.Load(); err == nil {
		switch strings.ToLower(cfg.Log.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
