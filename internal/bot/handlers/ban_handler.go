package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewBanHandler returns the handler for /ban <user_id>.
func NewBanHandler(deps *Deps) bot.HandlerFunc {
	return banHandler{deps: deps, ban: true}.Handle
}

// NewUnbanHandler returns the handler for /unban <user_id>.
func NewUnbanHandler(deps *Deps) bot.HandlerFunc {
	return banHandler{deps: deps, ban: false}.Handle
}

type banHandler struct {
	deps *Deps
	ban  bool
}

func (h banHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "ban", "ban", h.ban)
	msgs := h.deps.messages()

	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	usage := msgs.BanUsage
	if !h.ban {
		usage = msgs.UnbanUsage
	}

	args := strings.Fields(update.Message.Text)
	if len(args) != 2 {
		h.reply(ctx, chatID, usage)
		return
	}

	userID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || userID <= 0 {
		h.reply(ctx, chatID, msgs.InvalidUserID)
		return
	}

	if err := h.deps.Store.SetUserBanned(ctx, userID, h.ban); err != nil {
		log.ErrorContext(ctx, "Failed to update banned flag", "user_id", userID, "error", err)
		h.reply(ctx, chatID, msgs.GeneralError)
		return
	}

	done := msgs.BanDone
	if !h.ban {
		done = msgs.UnbanDone
	}
	log.InfoContext(ctx, "Moderation flag updated", "user_id", userID)
	h.reply(ctx, chatID, fmt.Sprintf(done, userID))
}

func (h banHandler) reply(ctx context.Context, chatID int64, text string) {
	if _, err := h.deps.TG.SendMessage(ctx, chatID, text, nil); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send moderation reply", "error", err, "chat_id", chatID)
	}
}
