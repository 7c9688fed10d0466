package handlers

import (
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler couples a handler with its pattern, match type, and
// per-handler middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAll initializes and returns the map of all command and callback
// handlers. Commands form the first routing layer; free text falls through
// to the state router installed as the bot's default handler.
func RegisterAll(deps *Deps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/genlink"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "genlink",
		Handler:     NewGenLinkHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/batch"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "batch",
		Handler:     NewBatchHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	adminMiddleware := []tgbot.Middleware{AdminOnly(deps)}

	handlers["/broadcast"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "broadcast",
		Handler:     NewBroadcastHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  adminMiddleware,
	}
	handlers["/ban"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "ban",
		Handler:     NewBanHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  adminMiddleware,
	}
	handlers["/unban"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "unban",
		Handler:     NewUnbanHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  adminMiddleware,
	}

	handlers["cb:help"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "help",
		Handler:     NewHelpCallback(deps),
		MatchType:   tgbot.MatchTypeExact,
	}
	handlers["cb:about"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "about",
		Handler:     NewAboutCallback(deps),
		MatchType:   tgbot.MatchTypeExact,
	}
	handlers["cb:start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "start",
		Handler:     NewStartCallback(deps),
		MatchType:   tgbot.MatchTypeExact,
	}
	handlers["cb:clone"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "clone",
		Handler:     NewCloneMenuCallback(deps),
		MatchType:   tgbot.MatchTypeExact,
	}
	handlers["cb:add_clone"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "add_clone",
		Handler:     NewAddCloneCallback(deps),
		MatchType:   tgbot.MatchTypeExact,
	}

	return handlers
}

// applyMiddleware wraps a handler with middleware; the first entry in the
// slice is the outermost.
func applyMiddleware(handler tgbot.HandlerFunc, mw []tgbot.Middleware) tgbot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// Register registers the handler map with the bot instance.
func Register(b *tgbot.Bot, logger *slog.Logger, registered map[string]RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	for name, rh := range registered {
		if rh.Handler == nil {
			log.Warn("Skipping registration for nil handler", "name", name)
			continue
		}
		b.RegisterHandler(rh.HandlerType, rh.Pattern, rh.MatchType, applyMiddleware(rh.Handler, rh.Middleware))
		log.Debug("Registered handler", "name", name, "pattern", rh.Pattern)
	}

	log.Info("Registered Telegram handlers", "count", len(registered))
	return nil
}
