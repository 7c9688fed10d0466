// Package logger provides structured logging for the bot using log/slog,
// plus a Telegram middleware that logs every processed update.
package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLogger creates a slog Logger with the given level and format
// ("json" or "text").
func NewLogger(levelStr, format string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// Middleware creates a bot middleware that logs incoming updates and how
// long their handlers took.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()
			entry := log.With("update_id", update.ID)

			switch {
			case update.Message != nil:
				entry = entry.With(
					"update_type", "message",
					"message_id", update.Message.ID,
					"chat_id", update.Message.Chat.ID,
					"text_preview", truncate(update.Message.Text, 50),
				)
				if update.Message.From != nil {
					entry = entry.With("user_id", update.Message.From.ID)
				}
			case update.CallbackQuery != nil:
				entry = entry.With(
					"update_type", "callback_query",
					"user_id", update.CallbackQuery.From.ID,
					"data", update.CallbackQuery.Data,
				)
			default:
				entry = entry.With("update_type", "other")
			}

			entry.DebugContext(ctx, "Processing update")
			next(ctx, b, update)
			entry.InfoContext(ctx, "Finished processing update", "duration", time.Since(start))
		}
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
