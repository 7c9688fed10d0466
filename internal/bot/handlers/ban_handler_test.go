package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrlko/filestorebot/internal/database"
)

func TestBanValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "missing id", text: "/ban", want: "ban_usage"},
		{name: "too many args", text: "/ban 1 2", want: "ban_usage"},
		{name: "non-numeric id", text: "/ban abc", want: "invalid_user_id"},
		{name: "negative id", text: "/ban -5", want: "invalid_user_id"},
		{name: "zero id", text: "/ban 0", want: "invalid_user_id"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			deps, tg, _ := newTestDeps(t)
			NewBanHandler(deps)(context.Background(), nil, textUpdate(testAdminID, tc.text))

			want := deps.Config.Bot.Messages.BanUsage
			if tc.want == "invalid_user_id" {
				want = deps.Config.Bot.Messages.InvalidUserID
			}
			assert.Equal(t, want, tg.lastSent(t).Text)
		})
	}
}

func TestBanAndUnban(t *testing.T) {
	t.Parallel()

	deps, tg, db := newTestDeps(t)
	ctx := context.Background()
	require.NoError(t, deps.Store.UpsertUser(ctx, &database.User{ID: 42, DisplayName: "u"}))

	NewBanHandler(deps)(ctx, nil, textUpdate(testAdminID, "/ban 42"))
	assert.Equal(t, fmt.Sprintf(deps.Config.Bot.Messages.BanDone, 42), tg.lastSent(t).Text)

	var banned bool
	require.NoError(t, db.GetContext(ctx, &banned, `SELECT banned FROM users WHERE id = 42;`))
	assert.True(t, banned)

	NewUnbanHandler(deps)(ctx, nil, textUpdate(testAdminID, "/unban 42"))
	assert.Equal(t, fmt.Sprintf(deps.Config.Bot.Messages.UnbanDone, 42), tg.lastSent(t).Text)

	require.NoError(t, db.GetContext(ctx, &banned, `SELECT banned FROM users WHERE id = 42;`))
	assert.False(t, banned)
}

func TestUnbanUsage(t *testing.T) {
	t.Parallel()

	deps, tg, _ := newTestDeps(t)
	NewUnbanHandler(deps)(context.Background(), nil, textUpdate(testAdminID, "/unban"))
	assert.Equal(t, deps.Config.Bot.Messages.UnbanUsage, tg.lastSent(t).Text)
}
