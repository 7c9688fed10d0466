// Package main contains the entrypoint for the file store bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/avrlko/filestorebot/internal/bot"
	"github.com/avrlko/filestorebot/internal/bot/handlers"
	"github.com/avrlko/filestorebot/internal/bot/tasks"
	"github.com/avrlko/filestorebot/internal/config"
	"github.com/avrlko/filestorebot/internal/database"
	"github.com/avrlko/filestorebot/internal/logger"
	"github.com/avrlko/filestorebot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components, starts the bot, and handles graceful
// shutdown. Returns the process exit code.
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	deps := &handlers.Deps{
		Logger: log,
		Config: cfg,
		Store:  store,
		Tokens: telegram.NewTokenVerifier(log),
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.TrackUser(deps)),
		tgbot.WithDefaultHandler(handlers.NewStateRouter(deps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	deps.TG = telegram.NewClient(tg, cfg.Telegram.ArchiveChannelID, me, log)

	if err := handlers.Register(tg, log, handlers.RegisterAll(deps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.Deps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
