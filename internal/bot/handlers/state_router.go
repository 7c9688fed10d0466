package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avrlko/filestorebot/internal/database"
)

// NewStateRouter returns the bot's default handler. Commands and callbacks
// are matched first by their registered handlers; everything else lands
// here and is routed by the sender's current conversation state. Users
// with no live state are ignored.
func NewStateRouter(deps *Deps) bot.HandlerFunc {
	batch := batchFlow{deps}
	clone := cloneFlow{deps}

	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil || msg.From == nil {
			return
		}
		if msg.Chat.Type != models.ChatTypePrivate {
			return
		}

		log := deps.Logger.With("handler", "state_router", "user_id", msg.From.ID)

		state, err := deps.Store.GetUserState(ctx, msg.From.ID)
		if err != nil {
			log.ErrorContext(ctx, "Failed to load conversation state", "error", err)
			return
		}
		if state == nil {
			return
		}

		switch state.Mode {
		case database.ModeBatchWaitingFirst:
			batch.handleFirstReference(ctx, msg)
		case database.ModeBatchWaitingLast:
			batch.handleLastReference(ctx, msg, state)
		case database.ModeCloneWaitingToken:
			clone.handleToken(ctx, msg)
		default:
			log.WarnContext(ctx, "Unknown conversation mode, resetting", "mode", state.Mode)
			if err := deps.Store.ResetUserState(ctx, msg.From.ID); err != nil {
				log.ErrorContext(ctx, "Failed to reset unknown conversation state", "error", err)
			}
		}
	}
}
