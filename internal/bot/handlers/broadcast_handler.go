package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avrlko/filestorebot/internal/database"
)

// NewBroadcastHandler returns the handler for /broadcast <message>. The
// fan-out is best-effort: per-user send failures are tallied, never fatal.
func NewBroadcastHandler(deps *Deps) bot.HandlerFunc {
	return broadcastHandler{deps}.Handle
}

type broadcastHandler struct {
	deps *Deps
}

func (h broadcastHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "broadcast")
	msgs := h.deps.messages()

	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.SplitN(update.Message.Text, " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		h.reply(ctx, chatID, msgs.BroadcastUsage)
		return
	}
	body := parts[1]

	status, err := h.deps.TG.SendMessage(ctx, chatID, msgs.BroadcastStart, nil)
	if err != nil {
		log.WarnContext(ctx, "Failed to send broadcast progress message", "error", err)
	}

	var success, failed int
	every := h.deps.Config.Bot.BroadcastProgressEvery

	err = h.deps.Store.ForEachActiveUser(ctx, func(user database.User) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if _, sendErr := h.deps.TG.SendMessage(ctx, user.ID, body, nil); sendErr != nil {
			log.WarnContext(ctx, "Failed to broadcast to user", "user_id", user.ID, "error", sendErr)
			failed++
		} else {
			success++
		}

		if status != nil && (success+failed)%every == 0 {
			progress := fmt.Sprintf(msgs.BroadcastProgress, success, failed)
			if editErr := h.deps.TG.EditMessageText(ctx, chatID, status.ID, progress, nil); editErr != nil {
				log.DebugContext(ctx, "Failed to edit broadcast progress", "error", editErr)
			}
		}
		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, "Broadcast iteration stopped", "success", success, "failed", failed, "error", err)
	}

	final := fmt.Sprintf(msgs.BroadcastDone, success, failed)
	log.InfoContext(ctx, "Broadcast finished", "success", success, "failed", failed)

	if status != nil {
		if err := h.deps.TG.EditMessageText(ctx, chatID, status.ID, final, nil); err != nil {
			log.WarnContext(ctx, "Failed to edit broadcast completion message", "error", err)
		}
	} else {
		h.reply(ctx, chatID, final)
	}
}

func (h broadcastHandler) reply(ctx context.Context, chatID int64, text string) {
	if _, err := h.deps.TG.SendMessage(ctx, chatID, text, nil); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send broadcast reply", "error", err, "chat_id", chatID)
	}
}
