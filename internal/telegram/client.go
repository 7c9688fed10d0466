package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Client is the chat-platform surface consumed by the bot's flows. It
// exists so flows can be exercised against a fake in tests; the real
// implementation delegates to go-telegram/bot.
type Client interface {
	// BotUsername returns the bot's own username, used to compose deep links.
	BotUsername() string

	// SendMessage sends a text message with an optional inline keyboard.
	SendMessage(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error)

	// SendReply sends a text message replying to an existing message.
	SendReply(ctx context.Context, chatID int64, replyToID int, text string, markup models.ReplyMarkup) (*models.Message, error)

	// EditMessageText replaces the text and keyboard of an existing message.
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, markup models.ReplyMarkup) error

	// ArchiveMessage forwards a message into the archive channel and
	// returns the resulting archived message. The returned message carries
	// the archived content, so it doubles as the fetch: the Bot API has no
	// standalone message lookup.
	ArchiveMessage(ctx context.Context, fromChatID int64, messageID int) (*models.Message, error)

	// DeleteArchiveMessage removes a message from the archive channel.
	DeleteArchiveMessage(ctx context.Context, messageID int) error

	// CopyFromArchive copies an archive message into a chat without
	// exposing the archive channel as the source.
	CopyFromArchive(ctx context.Context, toChatID int64, archiveMessageID int) error

	// ResolveChannel resolves a public channel username to its chat id.
	ResolveChannel(ctx context.Context, username string) (int64, error)

	// IsChannelAdmin reports whether the bot holds administrative standing
	// in the given channel.
	IsChannelAdmin(ctx context.Context, channelID int64) (bool, error)

	// AnswerCallback acknowledges a callback query.
	AnswerCallback(ctx context.Context, callbackQueryID string) error
}

// botClient implements Client on top of go-telegram/bot.
type botClient struct {
	b                *bot.Bot
	archiveChannelID int64
	botID            int64
	botUsername      string
	logger           *slog.Logger
}

// NewClient wraps an established bot connection. me must be the identity
// returned by GetMe for this connection.
func NewClient(b *bot.Bot, archiveChannelID int64, me *models.User, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &botClient{
		b:                b,
		archiveChannelID: archiveChannelID,
		botID:            me.ID,
		botUsername:      me.Username,
		logger:           logger.With("component", "telegram_client"),
	}
}

func (c *botClient) BotUsername() string {
	return c.botUsername
}

func (c *botClient) SendMessage(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error) {
	msg, err := c.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return msg, nil
}

func (c *botClient) SendReply(ctx context.Context, chatID int64, replyToID int, text string, markup models.ReplyMarkup) (*models.Message, error) {
	msg, err := c.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            text,
		ReplyMarkup:     markup,
		ReplyParameters: &models.ReplyParameters{MessageID: replyToID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send reply to chat %d: %w", chatID, err)
	}
	return msg, nil
}

func (c *botClient) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, markup models.ReplyMarkup) error {
	_, err := c.b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("failed to edit message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

func (c *botClient) ArchiveMessage(ctx context.Context, fromChatID int64, messageID int) (*models.Message, error) {
	msg, err := c.b.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:     c.archiveChannelID,
		FromChatID: fromChatID,
		MessageID:  messageID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to forward message %d from chat %d to archive: %w", messageID, fromChatID, err)
	}
	return msg, nil
}

func (c *botClient) DeleteArchiveMessage(ctx context.Context, messageID int) error {
	_, err := c.b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    c.archiveChannelID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete archive message %d: %w", messageID, err)
	}
	return nil
}

func (c *botClient) CopyFromArchive(ctx context.Context, toChatID int64, archiveMessageID int) error {
	_, err := c.b.CopyMessage(ctx, &bot.CopyMessageParams{
		ChatID:     toChatID,
		FromChatID: c.archiveChannelID,
		MessageID:  archiveMessageID,
	})
	if err != nil {
		return fmt.Errorf("failed to copy archive message %d to chat %d: %w", archiveMessageID, toChatID, err)
	}
	return nil
}

func (c *botClient) ResolveChannel(ctx context.Context, username string) (int64, error) {
	chat, err := c.b.GetChat(ctx, &bot.GetChatParams{ChatID: "@" + username})
	if err != nil {
		return 0, fmt.Errorf("failed to resolve channel %q: %w", username, err)
	}
	return chat.ID, nil
}

func (c *botClient) IsChannelAdmin(ctx context.Context, channelID int64) (bool, error) {
	member, err := c.b.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: channelID,
		UserID: c.botID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to query membership in channel %d: %w", channelID, err)
	}
	switch member.Type {
	case models.ChatMemberTypeOwner, models.ChatMemberTypeAdministrator:
		return true, nil
	default:
		return false, nil
	}
}

func (c *botClient) AnswerCallback(ctx context.Context, callbackQueryID string) error {
	_, err := c.b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackQueryID,
	})
	if err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}
