package handlers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrlko/filestorebot/internal/database"
)

func validTestToken() string {
	return "123456789:" + strings.Repeat("A", 35)
}

func TestAddCloneCallbackEntersTokenWait(t *testing.T) {
	t.Parallel()

	deps, tg, _ := newTestDeps(t)
	ctx := context.Background()

	NewAddCloneCallback(deps)(ctx, nil, callbackUpdate(testUserID, "add_clone"))

	state := mustState(t, deps, testUserID)
	assert.Equal(t, database.ModeCloneWaitingToken, state.Mode)

	assert.Equal(t, []string{"cbq-1"}, tg.answered)
	assert.Equal(t, deps.Config.Bot.Messages.CloneInstructions, tg.lastEdit(t).Text)
}

func TestCloneMalformedTokenIsRetryable(t *testing.T) {
	t.Parallel()

	deps, tg, _ := newTestDeps(t)
	ctx := context.Background()
	require.NoError(t, deps.Store.SetUserState(ctx, &database.ConversationState{
		UserID: testUserID,
		Mode:   database.ModeCloneWaitingToken,
	}))

	NewStateRouter(deps)(ctx, nil, textUpdate(testUserID, "not-a-token"))

	assert.Equal(t, deps.Config.Bot.Messages.CloneInvalidToken, tg.lastSent(t).Text)
	state := mustState(t, deps, testUserID)
	assert.Equal(t, database.ModeCloneWaitingToken, state.Mode)
}

func TestCloneVerificationFailureResets(t *testing.T) {
	t.Parallel()

	deps, tg, db := newTestDeps(t)
	ctx := context.Background()
	deps.Tokens = &fakeVerifier{err: assert.AnError}
	require.NoError(t, deps.Store.SetUserState(ctx, &database.ConversationState{
		UserID: testUserID,
		Mode:   database.ModeCloneWaitingToken,
	}))

	NewStateRouter(deps)(ctx, nil, textUpdate(testUserID, validTestToken()))

	assert.Equal(t, deps.Config.Bot.Messages.CloneFailed, tg.lastSent(t).Text)
	mustNoState(t, deps, testUserID)

	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM clones;`))
	assert.Zero(t, count)
}

func TestCloneRegistered(t *testing.T) {
	t.Parallel()

	deps, tg, db := newTestDeps(t)
	ctx := context.Background()
	require.NoError(t, deps.Store.SetUserState(ctx, &database.ConversationState{
		UserID: testUserID,
		Mode:   database.ModeCloneWaitingToken,
	}))

	NewStateRouter(deps)(ctx, nil, textUpdate(testUserID, validTestToken()))

	assert.Equal(t, fmt.Sprintf(deps.Config.Bot.Messages.CloneCreated, "clone_bot"), tg.lastSent(t).Text)
	mustNoState(t, deps, testUserID)

	var clone database.CloneRegistration
	require.NoError(t, db.GetContext(ctx, &clone, `SELECT * FROM clones;`))
	assert.Equal(t, testUserID, clone.OwnerUserID)
	assert.Equal(t, validTestToken(), clone.BotToken)
	assert.Equal(t, "clone_bot", clone.BotUsername)
	assert.Equal(t, int64(555), clone.BotID)
	assert.Equal(t, database.CloneStatusPending, clone.Status)
}
