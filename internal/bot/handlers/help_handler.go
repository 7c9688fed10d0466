package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHelpCallback returns the handler for the "help" callback button.
func NewHelpCallback(deps *Deps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		editCallbackScreen(ctx, deps, update, deps.messages().Help, backKeyboard("start"))
	}
}

// NewAboutCallback returns the handler for the "about" callback button.
func NewAboutCallback(deps *Deps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		editCallbackScreen(ctx, deps, update, deps.messages().About, backKeyboard("start"))
	}
}

// NewStartCallback returns the handler for the "start" (back) callback
// button, restoring the welcome screen in place.
func NewStartCallback(deps *Deps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		editCallbackScreen(ctx, deps, update, deps.messages().Welcome, welcomeKeyboard(deps))
	}
}

// editCallbackScreen acknowledges the callback and edits its source
// message into the given screen.
func editCallbackScreen(ctx context.Context, deps *Deps, update *models.Update, text string, markup models.ReplyMarkup) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	log := deps.Logger.With("handler", "callback_screen", "data", cb.Data)

	if err := deps.TG.AnswerCallback(ctx, cb.ID); err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err)
	}

	msg := cb.Message.Message
	if msg == nil {
		log.WarnContext(ctx, "Callback message inaccessible, cannot edit screen")
		return
	}

	if err := deps.TG.EditMessageText(ctx, msg.Chat.ID, msg.ID, text, markup); err != nil {
		log.ErrorContext(ctx, "Failed to edit callback screen", "error", err, "chat_id", msg.Chat.ID)
	}
}

func backKeyboard(target string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "Back", CallbackData: target}},
		},
	}
}
