package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"moodmate/internal/dialog"
)

var chatName string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation. Each line you type is one turn.

Type "play <song>" to get a link to a track, anything else to chat.
Type "exit" or press Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := chatName
		if name == "" {
			name = cfg.UserName
		}
		return runChat(cmd.Context(), application.Handler, cmd.InOrStdin(), newTerminal(cmd), name)
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatName, "name", "n", "", "name used in the greeting (defaults to USER_NAME)")
}

// turnHandler is the part of dialog.Handler the commands drive.
type turnHandler interface {
	Handle(ctx context.Context, req dialog.Request, out dialog.Output) (dialog.Turn, error)
	Greeting(name string, out dialog.Output)
}

func runChat(ctx context.Context, h turnHandler, in io.Reader, term *terminal, name string) error {
	h.Greeting(name, term)
	term.hint(`Type a message, "play <song>", or "exit".`)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(term.w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(term.w)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if _, err := h.Handle(ctx, dialog.Request{Text: line, Surface: "cli"}, term); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
