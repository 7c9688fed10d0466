// Package handlers contains the Telegram command and callback handlers,
// the per-user conversation state machines, and their registration logic.
package handlers

import (
	"log/slog"

	"github.com/avrlko/filestorebot/internal/config"
	"github.com/avrlko/filestorebot/internal/database"
	"github.com/avrlko/filestorebot/internal/telegram"
)

// Deps provides dependencies for handlers. TG is injected after the bot
// connection is established, before any handler runs.
type Deps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	TG     telegram.Client
	Tokens telegram.TokenVerifier
}

func (d *Deps) messages() *config.BotMessages {
	return &d.Config.Bot.Messages
}
