package config

import "time"

// Default values for configuration
const (
	// Log defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Database defaults
	DefaultDBPath = "storage.db"

	// Telegram defaults
	DefaultLinkBase = "https://t.me"

	// Bot defaults
	DefaultBroadcastProgressEvery = 20 // how many sends between progress edits
	DefaultBatchProgressSteps     = 10 // how many progress edits across a range

	// Scheduler defaults
	DefaultStateTTL = 24 * time.Hour
)

// Default user-facing messages
var DefaultBotMessages = BotMessages{
	Welcome: "🚀 I am a permanent file store bot.\n\n" +
		"Reply to any message with /genlink to get a shareable link, or use " +
		"/batch to store a whole range of messages from a channel.",
	Help: "✨ Help Menu\n\n" +
		"I store files from your channel and hand out shareable links. If the " +
		"channel is private, make me admin in there first.\n\n" +
		"📚 Available Commands:\n" +
		"➛ /start - Check if I am alive.\n" +
		"➛ /genlink - Store a single message or file.\n" +
		"➛ /batch - Store multiple messages from a channel.\n" +
		"➛ /broadcast - Broadcast a message to users (moderators only).\n" +
		"➛ /ban - Ban a user (moderators only).\n" +
		"➛ /unban - Unban a user (moderators only).",
	About:              "✨ About Me\n\nPermanent file store bot.",
	AdminOnly:          "⚠️ This command is only for administrators.",
	GeneralError:       "An error occurred. Please try again later.",
	ContentUnavailable: "This content is no longer available.",

	GenLinkReplyNeeded: "Please reply to a file/message to generate a link.",
	GenLinkFailed:      "Failed to generate link. Please try again.",
	GenLinkSuccess:     "✅ File stored successfully!\n\n📎 Shareable Link: %s",

	BatchPromptFirst: "Forward the first message of your batch from the channel " +
		"(with forward tag), or send me the first message link.",
	BatchPromptLast: "Now forward the last message of your batch from the channel " +
		"(with forward tag), or send me the last message link.",
	BatchInvalidRef:      "Invalid message or link. Please try again.",
	BatchNotAdmin:        "I am not admin in this channel. Please make me admin first.",
	BatchChannelMismatch: "Both messages must be from the same channel.",
	BatchProgress:        "Processing batch... %d%%",
	BatchDone:            "✅ Batch processed successfully!\n\n📎 Total files: %d\n🔗 Batch Link: %s",
	BatchFailed:          "An error occurred while processing the batch. Please try again.",

	BroadcastUsage:    "Please provide the message to broadcast.",
	BroadcastStart:    "Broadcasting message...",
	BroadcastProgress: "Broadcasting...\n\n✅ Success: %d\n❌ Failed: %d",
	BroadcastDone:     "Broadcast completed!\n\n✅ Successfully sent: %d\n❌ Failed: %d",

	BanUsage:      "Please provide a user ID to ban.",
	UnbanUsage:    "Please provide a user ID to unban.",
	InvalidUserID: "Invalid user ID.",
	BanDone:       "User %d has been banned.",
	UnbanDone:     "User %d has been unbanned.",

	CloneMenu: "✨ Manage Clones\n\n" +
		"You can create your very own identical clone bot, mirroring all my " +
		"features, using the buttons below.",
	CloneInstructions: "To create your clone:\n\n" +
		"1) Create a bot using @BotFather\n" +
		"2) You will get a message with a bot token\n" +
		"3) Send that bot token to me",
	CloneInvalidToken: "Invalid bot token format. Please send a valid bot token.",
	CloneFailed:       "❌ Failed to create clone. Please try again with a valid bot token.",
	CloneCreated: "✅ Your bot clone has been registered!\n\n" +
		"⏳ Please wait for the clone to become operational.\n🤖 Your bot: @%s",
}
