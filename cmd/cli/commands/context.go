package commands

import (
	"bufio"
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/activity-board/internal/config"
	"github.com/jakechorley/activity-board/pkg/core/board"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Board  *board.Board
	Logger *zap.Logger
	Ctx    context.Context
	// Input is shared by the interactive session and confirmation prompts
	Input *bufio.Reader
}
