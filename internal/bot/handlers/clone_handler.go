package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avrlko/filestorebot/internal/database"
	"github.com/avrlko/filestorebot/internal/telegram"
)

// NewCloneMenuCallback returns the handler for the "clone" callback,
// showing the clone management screen.
func NewCloneMenuCallback(deps *Deps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		markup := &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: "Add Clone", CallbackData: "add_clone"}},
				{{Text: "Back", CallbackData: "start"}},
			},
		}
		editCallbackScreen(ctx, deps, update, deps.messages().CloneMenu, markup)
	}
}

// NewAddCloneCallback returns the handler for the "add_clone" callback.
// It shows the token instructions and moves the user to WAITING_TOKEN.
func NewAddCloneCallback(deps *Deps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		cb := update.CallbackQuery
		if cb == nil {
			return
		}

		editCallbackScreen(ctx, deps, update, deps.messages().CloneInstructions, backKeyboard("clone"))

		state := &database.ConversationState{
			UserID: cb.From.ID,
			Mode:   database.ModeCloneWaitingToken,
		}
		if err := deps.Store.SetUserState(ctx, state); err != nil {
			deps.Logger.ErrorContext(ctx, "Failed to enter clone flow", "user_id", cb.From.ID, "error", err)
		}
	}
}

// cloneFlow consumes the WAITING_TOKEN turn: validate token shape, confirm
// the token is live via a throwaway session, persist the registration.
type cloneFlow struct {
	deps *Deps
}

func (f cloneFlow) handleToken(ctx context.Context, msg *models.Message) {
	log := f.deps.Logger.With("flow", "clone", "user_id", msg.From.ID)
	msgs := f.deps.messages()

	token := strings.TrimSpace(msg.Text)
	if !telegram.ValidTokenShape(token) {
		// Shape mismatch is retryable: the user stays in WAITING_TOKEN.
		f.reply(ctx, msg.Chat.ID, msgs.CloneInvalidToken)
		return
	}

	identity, err := f.deps.Tokens.Verify(ctx, token)
	if err != nil {
		log.WarnContext(ctx, "Clone token verification failed", "error", err)
		f.reply(ctx, msg.Chat.ID, msgs.CloneFailed)
		f.reset(ctx, msg.From.ID)
		return
	}

	clone := &database.CloneRegistration{
		OwnerUserID: msg.From.ID,
		OwnerName:   msg.From.Username,
		BotToken:    token,
		BotUsername: identity.Username,
		BotID:       identity.ID,
		Status:      database.CloneStatusPending,
	}
	if err := f.deps.Store.SaveClone(ctx, clone); err != nil {
		log.ErrorContext(ctx, "Failed to persist clone registration", "error", err)
		f.reply(ctx, msg.Chat.ID, msgs.CloneFailed)
		f.reset(ctx, msg.From.ID)
		return
	}

	log.InfoContext(ctx, "Clone registered", "bot_username", identity.Username, "bot_id", identity.ID)
	f.reply(ctx, msg.Chat.ID, fmt.Sprintf(msgs.CloneCreated, identity.Username))
	f.reset(ctx, msg.From.ID)
}

func (f cloneFlow) reset(ctx context.Context, userID int64) {
	if err := f.deps.Store.ResetUserState(ctx, userID); err != nil {
		f.deps.Logger.ErrorContext(ctx, "Failed to reset clone flow state", "user_id", userID, "error", err)
	}
}

func (f cloneFlow) reply(ctx context.Context, chatID int64, text string) {
	if _, err := f.deps.TG.SendMessage(ctx, chatID, text, nil); err != nil {
		f.deps.Logger.ErrorContext(ctx, "Failed to send clone flow reply", "error", err, "chat_id", chatID)
	}
}
