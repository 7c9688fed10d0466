// Package config manages application configuration from environment
// variables, config files, and default values.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrConfiguration wraps every configuration loading or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g., BOT_TELEGRAM_TOKEN) or
// through config.yaml.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Bot       BotConfig       `mapstructure:"bot"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls log verbosity and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// TelegramConfig holds the bot credentials, the static admin allow-list,
// and the archive channel used as durable file storage.
type TelegramConfig struct {
	Token            string  `mapstructure:"token"              validate:"required"`
	AdminIDs         []int64 `mapstructure:"admin_ids"          validate:"required,min=1,dive,gt=0"`
	ArchiveChannelID int64   `mapstructure:"archive_channel_id" validate:"required"`
	LinkBase         string  `mapstructure:"link_base"          validate:"required,url"`
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// BotConfig holds flow tuning knobs and the user-facing message catalog.
type BotConfig struct {
	BroadcastProgressEvery int         `mapstructure:"broadcast_progress_every" validate:"min=1"`
	BatchProgressSteps     int         `mapstructure:"batch_progress_steps"     validate:"min=1"`
	UpdateChannelURL       string      `mapstructure:"update_channel_url"`
	Messages               BotMessages `mapstructure:"messages"`
}

// SchedulerConfig configures the background task scheduler.
type SchedulerConfig struct {
	StateTTL time.Duration         `mapstructure:"state_ttl" validate:"min=1m"`
	Tasks    map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named scheduled task with a cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// BotMessages is the catalog of every user-facing reply text.
type BotMessages struct {
	Welcome            string `mapstructure:"welcome"`
	Help               string `mapstructure:"help"`
	About              string `mapstructure:"about"`
	AdminOnly          string `mapstructure:"admin_only"`
	GeneralError       string `mapstructure:"general_error"`
	ContentUnavailable string `mapstructure:"content_unavailable"`

	GenLinkReplyNeeded string `mapstructure:"genlink_reply_needed"`
	GenLinkFailed      string `mapstructure:"genlink_failed"`
	GenLinkSuccess     string `mapstructure:"genlink_success"`

	BatchPromptFirst     string `mapstructure:"batch_prompt_first"`
	BatchPromptLast      string `mapstructure:"batch_prompt_last"`
	BatchInvalidRef      string `mapstructure:"batch_invalid_ref"`
	BatchNotAdmin        string `mapstructure:"batch_not_admin"`
	BatchChannelMismatch string `mapstructure:"batch_channel_mismatch"`
	BatchProgress        string `mapstructure:"batch_progress"`
	BatchDone            string `mapstructure:"batch_done"`
	BatchFailed          string `mapstructure:"batch_failed"`

	BroadcastUsage    string `mapstructure:"broadcast_usage"`
	BroadcastStart    string `mapstructure:"broadcast_start"`
	BroadcastProgress string `mapstructure:"broadcast_progress"`
	BroadcastDone     string `mapstructure:"broadcast_done"`

	BanUsage      string `mapstructure:"ban_usage"`
	UnbanUsage    string `mapstructure:"unban_usage"`
	InvalidUserID string `mapstructure:"invalid_user_id"`
	BanDone       string `mapstructure:"ban_done"`
	UnbanDone     string `mapstructure:"unban_done"`

	CloneMenu         string `mapstructure:"clone_menu"`
	CloneInstructions string `mapstructure:"clone_instructions"`
	CloneInvalidToken string `mapstructure:"clone_invalid_token"`
	CloneFailed       string `mapstructure:"clone_failed"`
	CloneCreated      string `mapstructure:"clone_created"`
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// IsAdmin reports whether userID is in the static admin allow-list.
func (t *TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range t.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
