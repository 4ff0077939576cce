package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/activity-board/pkg/core/render"
)

// RenderBoardCmd creates the renderBoard command
func RenderBoardCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renderBoard",
		Short: "Render the board page as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")

			// The page shows the failure text when loading fails
			if err := app.Board.Load(app.Ctx); err != nil {
				app.Logger.Warn("Rendering board without activities", zap.Error(err))
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			view := app.Board.Snapshot()
			if err := render.Page(app.Cfg.Board.Title, &view, "").Render(app.Ctx, w); err != nil {
				return fmt.Errorf("failed to render board: %w", err)
			}

			if outPath != "" {
				app.Logger.Info("Board written", zap.String("path", outPath))
			}
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "", "Write the page to this file instead of stdout")

	return cmd
}
