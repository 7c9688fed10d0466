package handlers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/avrlko/filestorebot/internal/config"
	"github.com/avrlko/filestorebot/internal/database"
	"github.com/avrlko/filestorebot/internal/telegram"
)

const (
	testUserID    = int64(100)
	testAdminID   = int64(900)
	testChannelID = int64(-1007777)
	testArchiveID = int64(-1009999)
)

// fakeTG is an in-memory telegram.Client recording every outbound call.
type fakeTG struct {
	mu sync.Mutex

	username   string
	nextID     int
	archiveSeq int

	sent       []sentMsg
	sendErrFor map[int64]error

	edits []editedMsg

	archives  []archiveCall
	archiveFn func(fromChatID int64, messageID int) (*models.Message, error)
	deleted   []int

	copied  []int
	copyErr map[int]error

	channels map[string]int64
	admins   map[int64]bool
	adminErr error

	answered []string
}

type sentMsg struct {
	ChatID int64
	Text   string
	Markup models.ReplyMarkup
}

type editedMsg struct {
	ChatID    int64
	MessageID int
	Text      string
}

type archiveCall struct {
	FromChatID int64
	MessageID  int
}

func newFakeTG() *fakeTG {
	return &fakeTG{
		username:   "storebot",
		archiveSeq: 1000,
		sendErrFor: map[int64]error{},
		copyErr:    map[int]error{},
		channels:   map[string]int64{},
		admins:     map[int64]bool{},
	}
}

func (f *fakeTG) BotUsername() string { return f.username }

func (f *fakeTG) SendMessage(_ context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sendErrFor[chatID]; err != nil {
		return nil, err
	}
	f.nextID++
	f.sent = append(f.sent, sentMsg{ChatID: chatID, Text: text, Markup: markup})
	return &models.Message{ID: f.nextID, Chat: models.Chat{ID: chatID}}, nil
}

func (f *fakeTG) SendReply(ctx context.Context, chatID int64, _ int, text string, markup models.ReplyMarkup) (*models.Message, error) {
	return f.SendMessage(ctx, chatID, text, markup)
}

func (f *fakeTG) EditMessageText(_ context.Context, chatID int64, messageID int, text string, _ models.ReplyMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, editedMsg{ChatID: chatID, MessageID: messageID, Text: text})
	return nil
}

func (f *fakeTG) ArchiveMessage(_ context.Context, fromChatID int64, messageID int) (*models.Message, error) {
	f.mu.Lock()
	f.archives = append(f.archives, archiveCall{FromChatID: fromChatID, MessageID: messageID})
	f.mu.Unlock()

	if f.archiveFn != nil {
		return f.archiveFn(fromChatID, messageID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.archiveSeq++
	return &models.Message{
		ID:       f.archiveSeq,
		Chat:     models.Chat{ID: testArchiveID},
		Document: &models.Document{FileID: "doc"},
	}, nil
}

func (f *fakeTG) DeleteArchiveMessage(_ context.Context, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTG) CopyFromArchive(_ context.Context, _ int64, archiveMessageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.copyErr[archiveMessageID]; err != nil {
		return err
	}
	f.copied = append(f.copied, archiveMessageID)
	return nil
}

func (f *fakeTG) ResolveChannel(_ context.Context, username string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.channels[username]
	if !ok {
		return 0, errUnknownChannel
	}
	return id, nil
}

func (f *fakeTG) IsChannelAdmin(_ context.Context, channelID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.adminErr != nil {
		return false, f.adminErr
	}
	return f.admins[channelID], nil
}

func (f *fakeTG) AnswerCallback(_ context.Context, callbackQueryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, callbackQueryID)
	return nil
}

func (f *fakeTG) lastSent(t *testing.T) sentMsg {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "expected at least one sent message")
	return f.sent[len(f.sent)-1]
}

func (f *fakeTG) lastEdit(t *testing.T) editedMsg {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.edits, "expected at least one edited message")
	return f.edits[len(f.edits)-1]
}

var errUnknownChannel = &unknownChannelError{}

type unknownChannelError struct{}

func (*unknownChannelError) Error() string { return "unknown channel" }

// fakeVerifier is a canned telegram.TokenVerifier.
type fakeVerifier struct {
	identity *telegram.BotIdentity
	err      error
}

func (v *fakeVerifier) Verify(context.Context, string) (*telegram.BotIdentity, error) {
	if v.err != nil {
		return nil, v.err
	}
	if v.identity != nil {
		return v.identity, nil
	}
	return &telegram.BotIdentity{ID: 555, Username: "clone_bot"}, nil
}

// failingStore wraps a real Store and injects a batch persistence failure.
type failingStore struct {
	database.Store
	batchErr error
}

func (s *failingStore) CreateBatch(ctx context.Context, ownerUserID int64, fileRefs []int) (string, error) {
	if s.batchErr != nil {
		return "", s.batchErr
	}
	return s.Store.CreateBatch(ctx, ownerUserID, fileRefs)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: config.LogConfig{Level: "info", Format: "text"},
		Telegram: config.TelegramConfig{
			Token:            "123456:secret",
			AdminIDs:         []int64{testAdminID},
			ArchiveChannelID: testArchiveID,
			LinkBase:         "https://t.me",
		},
		Database: config.DatabaseConfig{Path: ":memory:"},
		Bot: config.BotConfig{
			BroadcastProgressEvery: 2,
			BatchProgressSteps:     4,
			Messages:               config.DefaultBotMessages,
		},
	}
}

func newTestDeps(t *testing.T) (*Deps, *fakeTG, *sqlx.DB) {
	t.Helper()

	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tg := newFakeTG()
	deps := &Deps{
		Logger: logger,
		Config: testConfig(),
		Store:  database.NewStore(db, logger),
		TG:     tg,
		Tokens: &fakeVerifier{},
	}
	return deps, tg, db
}

func textUpdate(userID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		ID:   1,
		Text: text,
		Chat: models.Chat{ID: userID, Type: models.ChatTypePrivate},
		From: &models.User{ID: userID, Username: "tester", FirstName: "Tester"},
	}}
}

func forwardUpdate(userID, channelID int64, srcMessageID int) *models.Update {
	u := textUpdate(userID, "")
	u.Message.ForwardOrigin = &models.MessageOrigin{
		Type: models.MessageOriginTypeChannel,
		MessageOriginChannel: &models.MessageOriginChannel{
			Type:      models.MessageOriginTypeChannel,
			Chat:      models.Chat{ID: channelID},
			MessageID: srcMessageID,
		},
	}
	return u
}

func callbackUpdate(userID int64, data string) *models.Update {
	return &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cbq-1",
		From: models.User{ID: userID},
		Data: data,
		Message: models.MaybeInaccessibleMessage{
			Type: models.MaybeInaccessibleMessageTypeMessage,
			Message: &models.Message{
				ID:   42,
				Chat: models.Chat{ID: userID, Type: models.ChatTypePrivate},
			},
		},
	}}
}

func mustState(t *testing.T, deps *Deps, userID int64) *database.ConversationState {
	t.Helper()
	state, err := deps.Store.GetUserState(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, state)
	return state
}

func mustNoState(t *testing.T, deps *Deps, userID int64) {
	t.Helper()
	state, err := deps.Store.GetUserState(context.Background(), userID)
	require.NoError(t, err)
	require.Nil(t, state)
}
