package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kuraproj/kura/internal/api"
	"github.com/kuraproj/kura/internal/config"
	"github.com/kuraproj/kura/internal/mcp"
	"github.com/kuraproj/kura/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the server and save the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		in := bufio.NewReader(cmd.InOrStdin())

		username, _ := cmd.Flags().GetString("username")
		if username == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Username: ")
			line, err := in.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading username: %w", err)
			}
			username = strings.TrimSpace(line)
		}
		if username == "" {
			return fmt.Errorf("username is required")
		}

		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		line, err := in.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password := strings.TrimSpace(line)

		// Login needs a client without a token.
		client := api.New(baseURL(cfg), "")
		resp, err := client.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}

		if err := config.SaveToken(resp.Token); err != nil {
			return err
		}
		printSuccess("Logged in as %s", resp.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearToken(); err != nil {
			return err
		}
		printSuccess("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		user, err := client.Me(cmd.Context())
		if err != nil {
			return err
		}

		printStatus("User", "%s", user.Username)
		printStatus("Active", "%t", user.IsActive)
		if len(user.Scopes) > 0 {
			printStatus("Scopes", "%s", strings.Join(user.Scopes, ", "))
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		for _, info := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-28s %s\n", info.Key, info.EnvVar, info.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetKey(args[0], args[1]); err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}
		printSuccess("Set %s = %s", args[0], args[1])
		return nil
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve kura tools over MCP on stdio",
	Long: `Serve kura tools over MCP on stdio.

Exposes chat, stats, list_files, and list_urls as MCP tools, plus the
current conversation transcript as a resource. Intended to be launched
by an MCP host, not interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		ctx := cmd.Context()
		sessions := session.New(client)
		sessions.Discover(ctx)

		srv := mcp.NewServer(mcp.Deps{
			Sessions:  sessions,
			Knowledge: client,
			Dataset:   cfg.Dataset.Name,
		})

		stdioSrv := server.NewStdioServer(srv)
		return stdioSrv.Listen(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	loginCmd.Flags().String("username", "", "username (prompted if omitted)")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
