package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/go-telegram/bot"
)

// tokenShapeRe matches the BotFather token format: numeric bot id, colon,
// fixed-length secret.
var tokenShapeRe = regexp.MustCompile(`^\d+:[A-Za-z0-9_-]{35}$`)

// ValidTokenShape reports whether s looks like a bot token. It performs no
// network I/O; use a TokenVerifier to confirm the token is live.
func ValidTokenShape(s string) bool {
	return tokenShapeRe.MatchString(s)
}

// BotIdentity is the identity of a bot confirmed by token verification.
type BotIdentity struct {
	ID       int64
	Username string
}

// TokenVerifier confirms a bot token is live and retrieves the bot's own
// identity. Isolated as an interface so flows can be tested without
// establishing real sessions.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*BotIdentity, error)
}

// liveTokenVerifier validates tokens by establishing a throwaway session
// and asking the platform for the bot's identity.
type liveTokenVerifier struct {
	logger *slog.Logger
}

// NewTokenVerifier creates a TokenVerifier backed by real API calls.
func NewTokenVerifier(logger *slog.Logger) TokenVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &liveTokenVerifier{logger: logger.With("component", "token_verifier")}
}

func (v *liveTokenVerifier) Verify(ctx context.Context, token string) (*BotIdentity, error) {
	throwaway, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("failed to create session for token: %w", err)
	}

	me, err := throwaway.GetMe(ctx)
	if err != nil {
		v.logger.DebugContext(ctx, "Token verification failed", "error", err)
		return nil, fmt.Errorf("token rejected by platform: %w", err)
	}

	return &BotIdentity{ID: me.ID, Username: me.Username}, nil
}
