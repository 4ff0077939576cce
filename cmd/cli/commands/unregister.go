package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/activity-board/pkg/core/board"
)

// UnregisterCmd creates the unregister command
func UnregisterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unregister <activity> <email>",
		Short: "Remove a participant from an activity (asks for confirmation)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			activity, email := args[0], args[1]
			yes, _ := cmd.Flags().GetBool("yes")

			var confirmer board.Confirmer = autoConfirm{}
			if !yes {
				confirmer = &promptConfirmer{in: app.Input, out: cmd.OutOrStdout()}
			}
			notifier := &writerNotifier{w: cmd.ErrOrStderr()}

			outcome, err := app.Board.RemoveParticipant(app.Ctx, activity, email, confirmer, notifier)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outcome {
			case board.RemoveDone:
				fmt.Fprintf(out, "\n✓ Removed %s from %s\n\n", email, activity)
			case board.RemoveDeclined:
				fmt.Fprintln(out, "Cancelled")
			case board.RemoveSkipped:
				fmt.Fprintln(out, "Nothing to remove")
			case board.RemoveFailed:
				return errors.New("participant was not removed")
			}

			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Remove without asking for confirmation")

	return cmd
}

type autoConfirm struct{}

func (autoConfirm) Confirm(ctx context.Context, prompt string) (bool, error) {
	return true, nil
}

// promptConfirmer asks on the terminal; only y or yes counts as agreement
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if p.in == nil {
		return false, errors.New("no input available for confirmation")
	}

	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// writerNotifier prints alerts as warnings
type writerNotifier struct {
	w io.Writer
}

func (n *writerNotifier) Notify(ctx context.Context, message string) {
	fmt.Fprintf(n.w, "⚠️  %s\n", message)
}
