package telegram_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avrlko/filestorebot/internal/telegram"
)

func TestValidTokenShape(t *testing.T) {
	t.Parallel()

	secret := strings.Repeat("A", 35)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "valid", token: "123456789:" + secret, want: true},
		{name: "valid with mixed charset", token: "42:AAF-9x_" + strings.Repeat("b", 28), want: true},
		{name: "missing colon", token: "123456789" + secret, want: false},
		{name: "non-numeric id", token: "abc:" + secret, want: false},
		{name: "secret too short", token: "123:" + strings.Repeat("A", 34), want: false},
		{name: "secret too long", token: "123:" + strings.Repeat("A", 36), want: false},
		{name: "invalid secret characters", token: "123:" + strings.Repeat("A", 34) + "!", want: false},
		{name: "empty", token: "", want: false},
		{name: "whitespace around token", token: " 123456789:" + secret + " ", want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, telegram.ValidTokenShape(tc.token))
		})
	}
}
