package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kuraproj/kura/internal/config"
	"github.com/kuraproj/kura/internal/console"
	"github.com/kuraproj/kura/internal/journal"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the knowledge base: files, URLs, users",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare `kura admin` shows the full dashboard.
		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		c.RefreshAll(cmd.Context())
		return nil
	},
}

// terminalUI implements console.UI on the command's stdio.
type terminalUI struct {
	in        *bufio.Reader
	assumeYes bool
}

func (u *terminalUI) Notify(format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "• "+fmt.Sprintf(format, args...)))
}

func (u *terminalUI) Confirm(prompt string) bool {
	if u.assumeYes {
		return true
	}
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	line, err := u.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// newConsole wires up a console controller from config and flags. The
// cleanup func closes the journal store.
func newConsole(cmd *cobra.Command) (*console.Controller, func(), error) {
	client, err := newAPIClient()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	dataset := cfg.Dataset.Name
	if flag, _ := cmd.Flags().GetString("dataset"); flag != "" {
		dataset = flag
	}
	assumeYes, _ := cmd.Flags().GetBool("yes")

	ui := &terminalUI{in: bufio.NewReader(cmd.InOrStdin()), assumeYes: assumeYes}

	cleanup := func() {}
	var rec console.Recorder
	store, err := journal.Open(config.DataDir())
	if err != nil {
		// The console works without its audit trail.
		slog.Warn("action journal unavailable", "error", err)
	} else {
		rec = store
		cleanup = func() { store.Close() }
	}

	return console.New(client, dataset, ui, rec, cmd.OutOrStdout()), cleanup, nil
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return c.LoadStats(cmd.Context())
	},
}

var adminFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "List ingested files",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return c.LoadFiles(cmd.Context())
	},
}

var adminURLsCmd = &cobra.Command{
	Use:   "urls",
	Short: "List ingested URLs",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return c.LoadURLs(cmd.Context())
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return c.LoadUsers(cmd.Context())
	},
}

var adminUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file (PDF, DOCX, TXT, MD) into the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return c.UploadFile(cmd.Context(), args[0])
	},
}

var adminAddURLCmd = &cobra.Command{
	Use:   "add-url <url>",
	Short: "Register a URL in the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return c.AddURL(cmd.Context(), strings.TrimSpace(args[0]))
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete (file|url) <id>",
	Short: "Delete a file or URL (asks for confirmation)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		switch args[0] {
		case "file":
			return c.DeleteFile(cmd.Context(), args[1])
		case "url":
			return c.DeleteURL(cmd.Context(), args[1])
		default:
			return fmt.Errorf("unknown resource kind %q: want file or url", args[0])
		}
	},
}

var adminProcessCmd = &cobra.Command{
	Use:   "process (file|url) <id>",
	Short: "Trigger processing of a resource (fire-and-forget)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		switch args[0] {
		case "file":
			return c.ProcessFile(cmd.Context(), args[1])
		case "url":
			return c.ProcessURL(cmd.Context(), args[1])
		default:
			return fmt.Errorf("unknown resource kind %q: want file or url", args[0])
		}
	},
}

var adminPreviewCmd = &cobra.Command{
	Use:   "preview (file|url) <id>",
	Short: "Show a content preview for a resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		switch args[0] {
		case "file":
			return c.PreviewFile(cmd.Context(), args[1])
		case "url":
			return c.PreviewURL(cmd.Context(), args[1])
		default:
			return fmt.Errorf("unknown resource kind %q: want file or url", args[0])
		}
	},
}

var adminActivateCmd = &cobra.Command{
	Use:   "activate <user-id>",
	Short: "Toggle a user's activation flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}

		c, cleanup, err := newConsole(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return c.ToggleUser(cmd.Context(), userID)
	},
}

var adminJournalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent console actions from the local audit journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := journal.Open(config.DataDir())
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No actions recorded yet.")
			return nil
		}

		for _, e := range entries {
			mark := colorize(colorGreen, "ok  ")
			if !e.OK {
				mark = colorize(colorRed, "fail")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-14s %-30s %s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), mark, e.Action, e.Target, e.Detail)
		}
		return nil
	},
}

func init() {
	adminCmd.PersistentFlags().String("dataset", "", "dataset to operate on (default from config)")
	adminCmd.PersistentFlags().Bool("yes", false, "answer yes to confirmation prompts")
	adminJournalCmd.Flags().Int("limit", 20, "maximum number of journal entries to show")

	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminFilesCmd)
	adminCmd.AddCommand(adminURLsCmd)
	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminUploadCmd)
	adminCmd.AddCommand(adminAddURLCmd)
	adminCmd.AddCommand(adminDeleteCmd)
	adminCmd.AddCommand(adminProcessCmd)
	adminCmd.AddCommand(adminPreviewCmd)
	adminCmd.AddCommand(adminActivateCmd)
	adminCmd.AddCommand(adminJournalCmd)
}
