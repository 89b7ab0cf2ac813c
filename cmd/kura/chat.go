package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kuraproj/kura/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the knowledge assistant",
	Long: `Chat with the knowledge assistant.

With a message argument, sends it and prints the reply. Without arguments,
starts an interactive loop. The most recent conversation session is resumed
automatically; pass --new to start a fresh one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		ctrl := session.New(client)
		ctx := cmd.Context()

		fresh, _ := cmd.Flags().GetBool("new")
		if !fresh {
			ctrl.Discover(ctx)
		}

		if len(args) > 0 {
			return sendOnce(ctx, ctrl, strings.Join(args, " "), cmd.OutOrStdout())
		}
		return runChatLoop(ctx, ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().Bool("new", false, "start a new session instead of resuming the last one")
}

func sendOnce(ctx context.Context, ctrl *session.Controller, message string, out io.Writer) error {
	reply, err := ctrl.Send(ctx, message)
	if err != nil {
		if errors.Is(err, session.ErrEmptyMessage) {
			return fmt.Errorf("message is empty")
		}
		return err
	}
	fmt.Fprintln(out, reply)
	return nil
}

func runChatLoop(ctx context.Context, ctrl *session.Controller, in io.Reader, out io.Writer) error {
	if id := ctrl.SessionID(); id != "" {
		printStatus("Session", "%s (resumed)", id)
	} else {
		printStatus("Session", "new")
	}
	fmt.Fprintln(out, "Type a message and press enter. Ctrl-D or /quit to exit.")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, colorize(colorBold, "you> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "/quit" {
			return nil
		}

		printStep("thinking...")
		reply, err := ctrl.Send(ctx, line)
		if err != nil {
			if errors.Is(err, session.ErrEmptyMessage) {
				continue
			}
			// The transcript already carries the error entry; surface it.
			transcript := ctrl.Transcript()
			printError("%s", transcript[len(transcript)-1].Content)
			continue
		}

		fmt.Fprintf(out, "%s %s\n", colorize(colorCyan, "kura>"), reply)
	}
}
