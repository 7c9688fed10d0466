// Package tasks implements the background tasks run by the scheduler.
package tasks

import (
	"log/slog"

	"github.com/avrlko/filestorebot/internal/config"
	"github.com/avrlko/filestorebot/internal/database"
)

// Deps contains the dependencies required by scheduled tasks.
type Deps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
