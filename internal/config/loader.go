package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file
// 3. BOT_* environment variables
func Load() (*Config, error) {
	setDefaults()

	if err := readConfigFile(); err != nil {
		return nil, fmt.Errorf("%w: failed to load config file: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfigFile initializes viper and reads the optional config.yaml.
func readConfigFile() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %v", err)
		}
		// Config file not found is okay, we'll use defaults
	}

	return nil
}

// setDefaults sets default values for optional configuration parameters
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.format", DefaultLogFormat)

	// Database defaults
	viper.SetDefault("database.path", DefaultDBPath)

	// Telegram defaults
	viper.SetDefault("telegram.link_base", DefaultLinkBase)

	// Bot defaults
	viper.SetDefault("bot.broadcast_progress_every", DefaultBroadcastProgressEvery)
	viper.SetDefault("bot.batch_progress_steps", DefaultBatchProgressSteps)

	// Bot messages defaults
	viper.SetDefault("bot.messages.welcome", DefaultBotMessages.Welcome)
	viper.SetDefault("bot.messages.help", DefaultBotMessages.Help)
	viper.SetDefault("bot.messages.about", DefaultBotMessages.About)
	viper.SetDefault("bot.messages.admin_only", DefaultBotMessages.AdminOnly)
	viper.SetDefault("bot.messages.general_error", DefaultBotMessages.GeneralError)
	viper.SetDefault("bot.messages.content_unavailable", DefaultBotMessages.ContentUnavailable)
	viper.SetDefault("bot.messages.genlink_reply_needed", DefaultBotMessages.GenLinkReplyNeeded)
	viper.SetDefault("bot.messages.genlink_failed", DefaultBotMessages.GenLinkFailed)
	viper.SetDefault("bot.messages.genlink_success", DefaultBotMessages.GenLinkSuccess)
	viper.SetDefault("bot.messages.batch_prompt_first", DefaultBotMessages.BatchPromptFirst)
	viper.SetDefault("bot.messages.batch_prompt_last", DefaultBotMessages.BatchPromptLast)
	viper.SetDefault("bot.messages.batch_invalid_ref", DefaultBotMessages.BatchInvalidRef)
	viper.SetDefault("bot.messages.batch_not_admin", DefaultBotMessages.BatchNotAdmin)
	viper.SetDefault("bot.messages.batch_channel_mismatch", DefaultBotMessages.BatchChannelMismatch)
	viper.SetDefault("bot.messages.batch_progress", DefaultBotMessages.BatchProgress)
	viper.SetDefault("bot.messages.batch_done", DefaultBotMessages.BatchDone)
	viper.SetDefault("bot.messages.batch_failed", DefaultBotMessages.BatchFailed)
	viper.SetDefault("bot.messages.broadcast_usage", DefaultBotMessages.BroadcastUsage)
	viper.SetDefault("bot.messages.broadcast_start", DefaultBotMessages.BroadcastStart)
	viper.SetDefault("bot.messages.broadcast_progress", DefaultBotMessages.BroadcastProgress)
	viper.SetDefault("bot.messages.broadcast_done", DefaultBotMessages.BroadcastDone)
	viper.SetDefault("bot.messages.ban_usage", DefaultBotMessages.BanUsage)
	viper.SetDefault("bot.messages.unban_usage", DefaultBotMessages.UnbanUsage)
	viper.SetDefault("bot.messages.invalid_user_id", DefaultBotMessages.InvalidUserID)
	viper.SetDefault("bot.messages.ban_done", DefaultBotMessages.BanDone)
	viper.SetDefault("bot.messages.unban_done", DefaultBotMessages.UnbanDone)
	viper.SetDefault("bot.messages.clone_menu", DefaultBotMessages.CloneMenu)
	viper.SetDefault("bot.messages.clone_instructions", DefaultBotMessages.CloneInstructions)
	viper.SetDefault("bot.messages.clone_invalid_token", DefaultBotMessages.CloneInvalidToken)
	viper.SetDefault("bot.messages.clone_failed", DefaultBotMessages.CloneFailed)
	viper.SetDefault("bot.messages.clone_created", DefaultBotMessages.CloneCreated)

	// Scheduler defaults
	viper.SetDefault("scheduler.state_ttl", DefaultStateTTL)
	viper.SetDefault("scheduler.tasks.state_cleanup.enabled", true)
	viper.SetDefault("scheduler.tasks.state_cleanup.schedule", "0 0 * * * *")
	viper.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	viper.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 0 4 * * *")
}
