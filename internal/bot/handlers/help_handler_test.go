package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackScreens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want func(deps *Deps) string
	}{
		{name: "help", data: "help", want: func(d *Deps) string { return d.Config.Bot.Messages.Help }},
		{name: "about", data: "about", want: func(d *Deps) string { return d.Config.Bot.Messages.About }},
		{name: "back to welcome", data: "start", want: func(d *Deps) string { return d.Config.Bot.Messages.Welcome }},
		{name: "clone menu", data: "clone", want: func(d *Deps) string { return d.Config.Bot.Messages.CloneMenu }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			deps, tg, _ := newTestDeps(t)
			ctx := context.Background()

			switch tc.data {
			case "help":
				NewHelpCallback(deps)(ctx, nil, callbackUpdate(testUserID, tc.data))
			case "about":
				NewAboutCallback(deps)(ctx, nil, callbackUpdate(testUserID, tc.data))
			case "start":
				NewStartCallback(deps)(ctx, nil, callbackUpdate(testUserID, tc.data))
			case "clone":
				NewCloneMenuCallback(deps)(ctx, nil, callbackUpdate(testUserID, tc.data))
			}

			assert.Equal(t, []string{"cbq-1"}, tg.answered, "callback must be acknowledged")
			edit := tg.lastEdit(t)
			assert.Equal(t, tc.want(deps), edit.Text)
			assert.Equal(t, testUserID, edit.ChatID)
			assert.Equal(t, 42, edit.MessageID)
		})
	}
}

func TestCallbackScreenIgnoresMissingQuery(t *testing.T) {
	t.Parallel()

	deps, tg, _ := newTestDeps(t)
	NewHelpCallback(deps)(context.Background(), nil, textUpdate(testUserID, "help"))
	assert.Empty(t, tg.edits)
	assert.Empty(t, tg.answered)
}
