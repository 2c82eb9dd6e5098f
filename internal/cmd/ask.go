package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

func init() {
	askCmd.Flags().StringP("key", "k", "", "API key to use when GROQ_API_KEY is not set")
	askCmd.Flags().BoolP("copy", "c", false, "Copy the reply to the clipboard")
}

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Send a single prompt and print the reply",
	Long: heredoc.Doc(`
		Send one prompt to the completion service without starting the web UI.
		Piped input is placed before the prompt.
	`),
	Example: heredoc.Doc(`
		crystaline ask "What is a goroutine?"
		cat main.go | crystaline ask "Review this code"
		crystaline ask --copy "Write a haiku about Go"
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		prompt, err := MaybePrependStdin(cmd.InOrStdin(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(prompt) == "" {
			return fmt.Errorf("prompt is empty")
		}

		key, _ := cmd.Flags().GetString("key")
		reply := newGateway(cfg).GetResponse(cmd.Context(), prompt, nil, key)
		fmt.Fprintln(cmd.OutOrStdout(), reply)

		if copyReply, _ := cmd.Flags().GetBool("copy"); copyReply {
			if err := clipboard.WriteAll(reply); err != nil {
				slog.Warn("Failed to copy reply to clipboard", "error", err)
			}
		}
		return nil
	},
}

// MaybePrependStdin puts piped input in front of the prompt. Interactive
// terminals are left alone.
func MaybePrependStdin(in io.Reader, prompt string) (string, error) {
	if f, ok := in.(*os.File); ok {
		if term.IsTerminal(f.Fd()) {
			return prompt, nil
		}
		fi, err := f.Stat()
		if err != nil {
			return prompt, err
		}
		if fi.Mode()&os.ModeNamedPipe == 0 {
			return prompt, nil
		}
	}
	bts, err := io.ReadAll(in)
	if err != nil {
		return prompt, err
	}
	if len(bts) == 0 {
		return prompt, nil
	}
	return string(bts) + "\n\n" + prompt, nil
}
