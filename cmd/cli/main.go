package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/activity-board/cmd/cli/commands"
	"github.com/jakechorley/activity-board/internal/config"
	"github.com/jakechorley/activity-board/pkg/clients/activitiesclient"
	"github.com/jakechorley/activity-board/pkg/core/board"
	"github.com/jakechorley/activity-board/pkg/utils/logging"
)

var (
	env     string
	logsDir string
	verbose bool
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "cli",
		Short:        "Activity Board CLI - Browse and manage extracurricular activities",
		Long:         `A CLI and web front for listing activities, signing students up and removing participants.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects activity_board_config.<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&logsDir, "logs-dir", logging.DefaultLogsDir, "Directory for log files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	rootCmd.AddCommand(commands.ListActivitiesCmd(app))
	rootCmd.AddCommand(commands.SignupCmd(app))
	rootCmd.AddCommand(commands.UnregisterCmd(app))
	rootCmd.AddCommand(commands.RenderBoardCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, backend client and board
func initApp() error {
	var err error
	app.Ctx = context.Background()
	app.Input = bufio.NewReader(os.Stdin)

	logPrefix := env
	if logPrefix == "" {
		logPrefix = "default"
	}
	app.Logger, err = logging.InitLogger(logPrefix, logsDir, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("backend", app.Cfg.Backend.BaseURL),
		zap.Duration("timeout", app.Cfg.Backend.Timeout))

	client := activitiesclient.NewClient(app.Cfg.Backend.BaseURL, app.Cfg.Backend.Timeout)
	app.Board = board.New(client, app.Logger, board.WithMessageTimeout(app.Cfg.Board.MessageTimeout))
	app.Logger.Debug("Board initialized", zap.String("backend", client.BaseURL()))

	return nil
}
