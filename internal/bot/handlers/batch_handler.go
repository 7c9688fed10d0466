package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/avrlko/filestorebot/internal/database"
	"github.com/avrlko/filestorebot/internal/links"
)

// NewBatchHandler returns the handler for the /batch command. Issuing the
// command always starts a fresh flow: any previously collected endpoint is
// discarded rather than merged.
func NewBatchHandler(deps *Deps) bot.HandlerFunc {
	flow := batchFlow{deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		flow.begin(ctx, update.Message)
	}
}

// batchFlow implements the multi-turn batch conversation:
// IDLE -> WAITING_FIRST -> WAITING_LAST -> IDLE. Continuation messages are
// dispatched here by the state router.
type batchFlow struct {
	deps *Deps
}

// begin moves the user to WAITING_FIRST and prompts for the first message.
func (f batchFlow) begin(ctx context.Context, msg *models.Message) {
	log := f.deps.Logger.With("flow", "batch", "user_id", msg.From.ID)

	state := &database.ConversationState{
		UserID: msg.From.ID,
		Mode:   database.ModeBatchWaitingFirst,
	}
	if err := f.deps.Store.SetUserState(ctx, state); err != nil {
		log.ErrorContext(ctx, "Failed to enter batch flow", "error", err)
		f.reply(ctx, msg.Chat.ID, f.deps.messages().GeneralError)
		return
	}

	f.reply(ctx, msg.Chat.ID, f.deps.messages().BatchPromptFirst)
}

// handleFirstReference consumes the WAITING_FIRST turn. An unparsable
// reference keeps the state so the user can retry; a missing admin
// privilege abandons the flow entirely.
func (f batchFlow) handleFirstReference(ctx context.Context, msg *models.Message) {
	log := f.deps.Logger.With("flow", "batch", "user_id", msg.From.ID)
	msgs := f.deps.messages()

	channelID, messageID, ok := f.extractMessageRef(ctx, msg)
	if !ok {
		f.reply(ctx, msg.Chat.ID, msgs.BatchInvalidRef)
		return
	}

	isAdmin, err := f.deps.TG.IsChannelAdmin(ctx, channelID)
	if err != nil {
		log.WarnContext(ctx, "Channel admin check failed", "channel_id", channelID, "error", err)
		isAdmin = false
	}
	if !isAdmin {
		f.reply(ctx, msg.Chat.ID, msgs.BatchNotAdmin)
		f.abandon(ctx, msg.From.ID)
		return
	}

	state := &database.ConversationState{
		UserID:         msg.From.ID,
		Mode:           database.ModeBatchWaitingLast,
		ChannelID:      channelID,
		StartMessageID: messageID,
	}
	if err := f.deps.Store.SetUserState(ctx, state); err != nil {
		log.ErrorContext(ctx, "Failed to store batch start reference", "error", err)
		f.reply(ctx, msg.Chat.ID, msgs.GeneralError)
		f.abandon(ctx, msg.From.ID)
		return
	}

	f.reply(ctx, msg.Chat.ID, msgs.BatchPromptLast)
}

// handleLastReference consumes the WAITING_LAST turn: it walks the message
// range, archives qualifying messages, persists the batch, and replies
// with the shareable link. The flow always returns to IDLE afterwards,
// success or not.
func (f batchFlow) handleLastReference(ctx context.Context, msg *models.Message, state *database.ConversationState) {
	log := f.deps.Logger.With("flow", "batch", "user_id", msg.From.ID, "channel_id", state.ChannelID)
	msgs := f.deps.messages()

	channelID, endMessageID, ok := f.extractMessageRef(ctx, msg)
	if !ok {
		f.reply(ctx, msg.Chat.ID, msgs.BatchInvalidRef)
		return
	}

	// Cross-channel ranges are never partially processed.
	if channelID != state.ChannelID {
		f.reply(ctx, msg.Chat.ID, msgs.BatchChannelMismatch)
		f.abandon(ctx, msg.From.ID)
		return
	}

	status, err := f.deps.TG.SendMessage(ctx, msg.Chat.ID, fmt.Sprintf(msgs.BatchProgress, 0), nil)
	if err != nil {
		log.WarnContext(ctx, "Failed to send batch progress message", "error", err)
	}

	fileRefs := f.archiveRange(ctx, state.ChannelID, state.StartMessageID, endMessageID, msg.Chat.ID, status)

	batchID, err := f.deps.Store.CreateBatch(ctx, msg.From.ID, fileRefs)
	if err != nil {
		log.ErrorContext(ctx, "Failed to persist batch", "files", len(fileRefs), "error", err)
		f.reply(ctx, msg.Chat.ID, msgs.BatchFailed)
		f.abandon(ctx, msg.From.ID)
		return
	}

	link := links.BatchLink(f.deps.Config.Telegram.LinkBase, f.deps.TG.BotUsername(), batchID)
	done := fmt.Sprintf(msgs.BatchDone, len(fileRefs), link)
	log.InfoContext(ctx, "Batch created", "batch_id", batchID, "files", len(fileRefs))

	if status != nil {
		if err := f.deps.TG.EditMessageText(ctx, msg.Chat.ID, status.ID, done, shareKeyboard("Share Batch Link", link)); err != nil {
			log.WarnContext(ctx, "Failed to edit batch completion message", "error", err)
		}
	} else {
		f.reply(ctx, msg.Chat.ID, done)
	}

	f.abandon(ctx, msg.From.ID)
}

// archiveRange walks [first,last] (in either order) ascending, forwarding
// every media-carrying message into the archive channel. Individual
// failures are logged and skipped; they never abort the walk. Returns the
// archive positions in ascending source order.
func (f batchFlow) archiveRange(ctx context.Context, channelID int64, firstID, lastID int, statusChatID int64, status *models.Message) []int {
	log := f.deps.Logger.With("flow", "batch", "channel_id", channelID)

	lo, hi := firstID, lastID
	if lo > hi {
		lo, hi = hi, lo
	}
	total := hi - lo + 1

	progressEvery := total / f.deps.Config.Bot.BatchProgressSteps
	if progressEvery < 1 {
		progressEvery = 1
	}

	fileRefs := make([]int, 0, total)
	for id := lo; id <= hi; id++ {
		if ctx.Err() != nil {
			log.WarnContext(ctx, "Batch range walk cancelled", "processed", id-lo)
			break
		}

		archived, err := f.deps.TG.ArchiveMessage(ctx, channelID, id)
		if err != nil {
			log.WarnContext(ctx, "Skipping message in batch range", "message_id", id, "error", err)
		} else if !hasMedia(archived) {
			// Forwarding is the only way to inspect the message, so a
			// non-media forward is removed from the archive again.
			if err := f.deps.TG.DeleteArchiveMessage(ctx, archived.ID); err != nil {
				log.WarnContext(ctx, "Failed to remove non-media forward from archive", "message_id", archived.ID, "error", err)
			}
		} else {
			fileRefs = append(fileRefs, archived.ID)
		}

		processed := id - lo + 1
		if status != nil && processed%progressEvery == 0 && processed < total {
			pct := processed * 100 / total
			if err := f.deps.TG.EditMessageText(ctx, statusChatID, status.ID, fmt.Sprintf(f.deps.messages().BatchProgress, pct), nil); err != nil {
				log.DebugContext(ctx, "Failed to edit batch progress", "error", err)
			}
		}
	}

	return fileRefs
}

// extractMessageRef parses a message reference from either a message
// forwarded from a channel or a public t.me message URL.
func (f batchFlow) extractMessageRef(ctx context.Context, msg *models.Message) (channelID int64, messageID int, ok bool) {
	if origin := msg.ForwardOrigin; origin != nil && origin.Type == models.MessageOriginTypeChannel {
		ch := origin.MessageOriginChannel
		return ch.Chat.ID, ch.MessageID, true
	}

	if username, id, parsed := links.ParseMessageURL(msg.Text); parsed {
		resolved, err := f.deps.TG.ResolveChannel(ctx, username)
		if err != nil {
			f.deps.Logger.WarnContext(ctx, "Failed to resolve channel username", "username", username, "error", err)
			return 0, 0, false
		}
		return resolved, id, true
	}

	return 0, 0, false
}

// abandon resets the user's conversation state to IDLE.
func (f batchFlow) abandon(ctx context.Context, userID int64) {
	if err := f.deps.Store.ResetUserState(ctx, userID); err != nil {
		f.deps.Logger.ErrorContext(ctx, "Failed to reset conversation state", "user_id", userID, "error", err)
	}
}

func (f batchFlow) reply(ctx context.Context, chatID int64, text string) {
	if _, err := f.deps.TG.SendMessage(ctx, chatID, text, nil); err != nil {
		f.deps.Logger.ErrorContext(ctx, "Failed to send batch flow reply", "error", err, "chat_id", chatID)
	}
}

// hasMedia reports whether the message carries any media attachment.
func hasMedia(msg *models.Message) bool {
	if msg == nil {
		return false
	}
	return len(msg.Photo) > 0 ||
		msg.Video != nil ||
		msg.Document != nil ||
		msg.Audio != nil ||
		msg.Voice != nil ||
		msg.Animation != nil ||
		msg.Sticker != nil ||
		msg.VideoNote != nil
}
