package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avrlko/filestorebot/internal/links"
)

// NewStartHandler returns the handler for the /start command. A start
// payload (file_<ref> or batch_<id>) triggers content delivery; anything
// else, including unrecognized payloads, falls through to the welcome.
func NewStartHandler(deps *Deps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps *Deps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := strings.Fields(update.Message.Text)
	if len(args) > 1 {
		if payload, ok := links.ParseStartPayload(args[1]); ok {
			h.deliver(ctx, chatID, payload)
			return
		}
		log.DebugContext(ctx, "Unrecognized start payload, sending welcome", "arg", args[1])
	}

	h.sendWelcome(ctx, chatID)
}

func (h startHandler) deliver(ctx context.Context, chatID int64, payload links.Payload) {
	switch payload.Kind {
	case links.KindFile:
		h.deliverFile(ctx, chatID, payload.FileRef)
	case links.KindBatch:
		h.deliverBatch(ctx, chatID, payload.BatchID)
	}
}

// deliverFile copies the archive message at the referenced position into
// the requesting chat. The copy is the authoritative existence check.
func (h startHandler) deliverFile(ctx context.Context, chatID int64, fileRef int) {
	log := h.deps.Logger.With("handler", "start", "file_ref", fileRef)

	if err := h.deps.TG.CopyFromArchive(ctx, chatID, fileRef); err != nil {
		log.WarnContext(ctx, "Failed to deliver archived file", "error", err)
		h.reply(ctx, chatID, h.deps.messages().ContentUnavailable)
		return
	}

	if err := h.deps.Store.IncrementFileAccess(ctx, fileRef); err != nil {
		log.ErrorContext(ctx, "Failed to increment file access count", "error", err)
	}
}

// deliverBatch copies every file of the batch in stored order,
// best-effort: one failed delivery does not abort the rest.
func (h startHandler) deliverBatch(ctx context.Context, chatID int64, batchID string) {
	log := h.deps.Logger.With("handler", "start", "batch_id", batchID)

	batch, err := h.deps.Store.GetBatch(ctx, batchID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to look up batch", "error", err)
		h.reply(ctx, chatID, h.deps.messages().GeneralError)
		return
	}
	if batch == nil {
		h.reply(ctx, chatID, h.deps.messages().ContentUnavailable)
		return
	}

	delivered := 0
	for _, ref := range batch.FileRefs {
		if err := h.deps.TG.CopyFromArchive(ctx, chatID, ref); err != nil {
			log.WarnContext(ctx, "Failed to deliver batch file", "file_ref", ref, "error", err)
			continue
		}
		delivered++
	}
	log.InfoContext(ctx, "Delivered batch", "delivered", delivered, "total", len(batch.FileRefs))

	if delivered == 0 && len(batch.FileRefs) > 0 {
		h.reply(ctx, chatID, h.deps.messages().ContentUnavailable)
		return
	}

	if err := h.deps.Store.IncrementBatchAccess(ctx, batchID); err != nil {
		log.ErrorContext(ctx, "Failed to increment batch access count", "error", err)
	}
}

func (h startHandler) sendWelcome(ctx context.Context, chatID int64) {
	if _, err := h.deps.TG.SendMessage(ctx, chatID, h.deps.messages().Welcome, welcomeKeyboard(h.deps)); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send welcome message", "error", err, "chat_id", chatID)
	}
}

func (h startHandler) reply(ctx context.Context, chatID int64, text string) {
	if _, err := h.deps.TG.SendMessage(ctx, chatID, text, nil); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// welcomeKeyboard builds the inline keyboard attached to the welcome
// screen.
func welcomeKeyboard(deps *Deps) *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		{
			{Text: "Help", CallbackData: "help"},
			{Text: "About", CallbackData: "about"},
		},
		{
			{Text: "CREATE MY OWN CLONE", CallbackData: "clone"},
		},
	}
	if url := deps.Config.Bot.UpdateChannelURL; url != "" {
		rows = append(rows, []models.InlineKeyboardButton{{Text: "Update Channel", URL: url}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// shareKeyboard builds a single share-link button.
func shareKeyboard(label, url string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: fmt.Sprintf("📎 %s", label), URL: url}},
		},
	}
}
