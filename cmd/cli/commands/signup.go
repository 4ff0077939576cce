package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/activity-board/pkg/core/board"
)

// SignupCmd creates the signup command
func SignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <activity> <email>",
		Short: "Sign a student up for an activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := app.Board.SubmitSignup(app.Ctx, args[1], args[0])
			if msg.Kind == board.MessageError {
				return errors.New(msg.Text)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ %s\n\n", msg.Text)
			return nil
		},
	}
}
