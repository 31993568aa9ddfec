package telegram

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestRetryAfter(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wait    time.Duration
		limited bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("Forbidden: bot was blocked by the user")},
		{
			name:    "api retry_after",
			err:     &tgbotapi.Error{Code: 429, Message: "Too Many Requests: retry after 7", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 7}},
			wait:    7 * time.Second,
			limited: true,
		},
		{
			name:    "api 429 text only",
			err:     &tgbotapi.Error{Code: 429, Message: "Too Many Requests: retry after 4"},
			wait:    4 * time.Second,
			limited: true,
		},
		{
			name:    "wrapped api error",
			err:     fmt.Errorf("copy: %w", &tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 2}}),
			wait:    2 * time.Second,
			limited: true,
		},
		{name: "flood control retry in", err: errors.New("Flood control exceeded. Retry in 12 seconds"), wait: 12 * time.Second, limited: true},
		{name: "too many requests no hint", err: errors.New("Too Many Requests"), wait: time.Second, limited: true},
		{name: "other api error", err: &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wait, limited := RetryAfter(tc.err)
			assert.Equal(t, tc.limited, limited)
			assert.Equal(t, tc.wait, wait)
		})
	}
}
