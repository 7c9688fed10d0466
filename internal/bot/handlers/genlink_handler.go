package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avrlko/filestorebot/internal/database"
	"github.com/avrlko/filestorebot/internal/links"
)

// NewGenLinkHandler returns the handler for /genlink: archive the
// replied-to message and hand back a shareable deep link.
func NewGenLinkHandler(deps *Deps) bot.HandlerFunc {
	return genLinkHandler{deps}.Handle
}

type genLinkHandler struct {
	deps *Deps
}

func (h genLinkHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "genlink")
	msgs := h.deps.messages()

	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	if msg.ReplyToMessage == nil {
		h.reply(ctx, chatID, msgs.GenLinkReplyNeeded, nil)
		return
	}

	archived, err := h.deps.TG.ArchiveMessage(ctx, chatID, msg.ReplyToMessage.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to forward message to archive", "chat_id", chatID, "error", err)
		h.reply(ctx, chatID, msgs.GenLinkFailed, nil)
		return
	}

	file := &database.ArchivedFile{
		FileRef:          archived.ID,
		ArchiveMessageID: archived.ID,
		OwnerUserID:      msg.From.ID,
	}
	if err := h.deps.Store.SaveFile(ctx, file); err != nil {
		log.ErrorContext(ctx, "Failed to persist archived file", "file_ref", archived.ID, "error", err)
		h.reply(ctx, chatID, msgs.GenLinkFailed, nil)
		return
	}

	link := links.FileLink(h.deps.Config.Telegram.LinkBase, h.deps.TG.BotUsername(), file.FileRef)
	log.InfoContext(ctx, "File archived", "file_ref", file.FileRef, "owner_user_id", msg.From.ID)

	h.reply(ctx, chatID, fmt.Sprintf(msgs.GenLinkSuccess, link), shareKeyboard("Share Link", link))
}

func (h genLinkHandler) reply(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	if _, err := h.deps.TG.SendMessage(ctx, chatID, text, markup); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send genlink reply", "error", err, "chat_id", chatID)
	}
}
