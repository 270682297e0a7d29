package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/agentdeck/internal/attachment"
	"github.com/zhubert/agentdeck/internal/conversation"
	"github.com/zhubert/agentdeck/internal/response"
)

var (
	sendFiles []string
	sendJSON  bool
)

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send one message and print the reply",
	Long: `Sends a single chat message, with optional file attachments, and prints
the reply preview. With --json the raw reply is printed instead.

Examples:
  agentdeck send "What can you do?"
  agentdeck send -f notes.md -f chart.png "Summarize these"
  agentdeck send --json "List your actions"`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringArrayVarP(&sendFiles, "file", "f", nil, "Attach a file (repeatable)")
	sendCmd.Flags().BoolVar(&sendJSON, "json", false, "Print the raw JSON reply")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	atts, err := resolveAttachments(cmd.ErrOrStderr(), sendFiles, attachment.Limit(cfg.GetMaxAttachmentBytes()))
	if err != nil {
		return err
	}

	client := newClient(cfg)
	session := conversation.NewSession(client, conversation.Options{BaseURL: client.BaseURL()})

	return withTelemetry(cmd.Context(), cfg, func() error {
		turn, err := session.Send(cmd.Context(), strings.Join(args, " "), atts)
		if errors.Is(err, conversation.ErrEmpty) {
			return errors.New("nothing to send: give a message or --file")
		}
		if err != nil {
			return err
		}
		if turn.IsError() {
			return errors.New(turn.Content)
		}

		out := cmd.OutOrStdout()
		if sendJSON {
			fmt.Fprintln(out, response.RawJSON(turn.Raw))
			return nil
		}
		fmt.Fprintln(out, turn.Content)
		return nil
	})
}

// resolveAttachments checks every path. A missing file fails at once; each
// unsupported or oversized file is reported to warn before failing.
func resolveAttachments(warn io.Writer, paths []string, limit attachment.Limit) ([]attachment.Attachment, error) {
	var candidates []attachment.Attachment
	for _, p := range paths {
		a, err := attachment.FromPath(p)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, a)
	}
	accepted, rejected := attachment.Filter(candidates, limit)
	for _, r := range rejected {
		fmt.Fprintln(warn, "Warning: "+r.Reason)
	}
	if len(rejected) > 0 {
		return nil, fmt.Errorf("%d attachment(s) rejected", len(rejected))
	}
	return accepted, nil
}
