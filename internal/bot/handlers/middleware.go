package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avrlko/filestorebot/internal/database"
)

// AdminOnly creates a middleware that rejects message senders outside the
// static admin allow-list. Every moderation entry point is wrapped with it.
func AdminOnly(deps *Deps) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			userID := update.Message.From.ID
			if !deps.Config.Telegram.IsAdmin(userID) {
				log := deps.Logger.With("middleware", "admin_only")
				log.WarnContext(ctx, "Unauthorized moderation attempt", "user_id", userID)

				if _, err := deps.TG.SendMessage(ctx, update.Message.Chat.ID, deps.messages().AdminOnly, nil); err != nil {
					log.ErrorContext(ctx, "Failed to send admin-only rejection", "error", err, "chat_id", update.Message.Chat.ID)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}

// TrackUser creates a middleware that upserts the sender on every message
// so users exist from their first interaction. Upserts never touch the
// banned flag or joined_at.
func TrackUser(deps *Deps) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message != nil && update.Message.From != nil {
				from := update.Message.From
				name := from.Username
				if name == "" {
					name = from.FirstName
				}
				err := deps.Store.UpsertUser(ctx, &database.User{ID: from.ID, DisplayName: name})
				if err != nil {
					deps.Logger.ErrorContext(ctx, "Failed to record user", "user_id", from.ID, "error", err)
				}
			}
			next(ctx, b, update)
		}
	}
}
