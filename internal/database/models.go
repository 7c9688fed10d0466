package database

import "time"

// User is a person who has interacted with the bot at least once.
// Users are never hard-deleted; moderation only toggles the banned flag.
type User struct {
	ID           int64     `db:"id"`
	DisplayName  string    `db:"display_name"`
	JoinedAt     time.Time `db:"joined_at"`
	LastActiveAt time.Time `db:"last_active_at"`
	Banned       bool      `db:"banned"`
}

// ArchivedFile records a single message stored in the archive channel.
// FileRef is the message's position in the archive channel and is the
// identifier embedded in share links. Immutable except for AccessCount.
type ArchivedFile struct {
	FileRef          int       `db:"file_ref"`
	ArchiveMessageID int       `db:"archive_message_id"`
	OwnerUserID      int64     `db:"owner_user_id"`
	CreatedAt        time.Time `db:"created_at"`
	AccessCount      int64     `db:"access_count"`
}

// Batch is an ordered set of archived files shared under a single link.
// FileRefs is fixed at creation, ordered by ascending source message id.
type Batch struct {
	BatchID     string    `db:"batch_id"`
	OwnerUserID int64     `db:"owner_user_id"`
	CreatedAt   time.Time `db:"created_at"`
	AccessCount int64     `db:"access_count"`

	FileRefs []int `db:"-"`
}

// Conversation modes for the per-user state machines.
const (
	ModeBatchWaitingFirst = "batch_waiting_first"
	ModeBatchWaitingLast  = "batch_waiting_last"
	ModeCloneWaitingToken = "clone_waiting_token"
)

// ConversationState is the single live multi-turn state for a user.
// Each transition overwrites the whole row; flow completion deletes it.
type ConversationState struct {
	UserID         int64     `db:"user_id"`
	Mode           string    `db:"mode"`
	ChannelID      int64     `db:"channel_id"`
	StartMessageID int       `db:"start_message_id"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// CloneStatusPending is the initial status of every clone registration.
// The provisioning process advances it out of band.
const CloneStatusPending = "pending"

// CloneRegistration records a validated request for a second bot instance
// running under the owner's own token.
type CloneRegistration struct {
	ID          int64     `db:"id"`
	OwnerUserID int64     `db:"owner_user_id"`
	OwnerName   string    `db:"owner_name"`
	BotToken    string    `db:"bot_token"`
	BotUsername string    `db:"bot_username"`
	BotID       int64     `db:"bot_id"`
	CreatedAt   time.Time `db:"created_at"`
	Status      string    `db:"status"`
}
