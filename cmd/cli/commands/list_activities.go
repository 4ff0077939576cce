package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/activity-board/pkg/core/model"
	"github.com/jakechorley/activity-board/pkg/core/render"
)

// ListActivitiesCmd creates the listActivities command
func ListActivitiesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listActivities",
		Short: "List all activities with availability and participants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Board.Load(app.Ctx); err != nil {
				return err
			}

			view := app.Board.Snapshot()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "\nFound %d activities:\n\n", view.Catalog.Len())
			for _, a := range view.Catalog.Ordered() {
				fmt.Fprintf(out, "%s\n", a.Name)
				if a.Description != "" {
					fmt.Fprintf(out, "  %s\n", a.Description)
				}
				fmt.Fprintf(out, "  Schedule:     %s\n", a.Schedule)
				fmt.Fprintf(out, "  Availability: %d spots left\n", a.SpotsLeft())

				if len(a.Participants) == 0 {
					fmt.Fprintf(out, "  %s\n", render.NoParticipantsText)
				}
				for _, email := range a.Participants {
					fmt.Fprintf(out, "  - [%s] %s <%s>\n", render.Initials(email), model.LocalPart(email), email)
				}
				fmt.Fprintln(out)
			}

			return nil
		},
	}
}
