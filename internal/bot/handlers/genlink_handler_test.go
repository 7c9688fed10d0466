package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenLinkRequiresReply(t *testing.T) {
	t.Parallel()

	deps, tg, _ := newTestDeps(t)
	ctx := context.Background()

	NewGenLinkHandler(deps)(ctx, nil, textUpdate(testUserID, "/genlink"))

	assert.Equal(t, deps.Config.Bot.Messages.GenLinkReplyNeeded, tg.lastSent(t).Text)
	assert.Empty(t, tg.archives)
}

func TestGenLinkArchivesAndLinks(t *testing.T) {
	t.Parallel()

	deps, tg, _ := newTestDeps(t)
	ctx := context.Background()

	u := textUpdate(testUserID, "/genlink")
	u.Message.ReplyToMessage = &models.Message{ID: 5, Chat: models.Chat{ID: testUserID}}

	NewGenLinkHandler(deps)(ctx, nil, u)

	require.Len(t, tg.archives, 1)
	assert.Equal(t, testUserID, tg.archives[0].FromChatID)
	assert.Equal(t, 5, tg.archives[0].MessageID)

	// The fake hands out archive position 1001 first.
	file, err := deps.Store.GetFile(ctx, 1001)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, testUserID, file.OwnerUserID)

	last := tg.lastSent(t)
	assert.Contains(t, last.Text, fmt.Sprintf("https://t.me/storebot?start=file_%d", 1001))
	assert.NotNil(t, last.Markup, "success reply carries the share button")
}

func TestGenLinkArchiveFailure(t *testing.T) {
	t.Parallel()

	deps, tg, db := newTestDeps(t)
	ctx := context.Background()
	tg.archiveFn = func(int64, int) (*models.Message, error) {
		return nil, assert.AnError
	}

	u := textUpdate(testUserID, "/genlink")
	u.Message.ReplyToMessage = &models.Message{ID: 5, Chat: models.Chat{ID: testUserID}}

	NewGenLinkHandler(deps)(ctx, nil, u)

	assert.Equal(t, deps.Config.Bot.Messages.GenLinkFailed, tg.lastSent(t).Text)

	var count int
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM files;`))
	assert.Zero(t, count)
}
