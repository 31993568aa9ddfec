package telegram

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// defaultRetryAfter 在错误中无法解析等待秒数时使用。
const defaultRetryAfter = time.Second

var retryAfterPattern = regexp.MustCompile(`retry (?:after|in) (\d+)`)

// RetryAfter reports whether err is a rate-limit error and how long the
// platform asked us to wait. Non rate-limit errors return (0, false).
func RetryAfter(err error) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.RetryAfter > 0 {
			return time.Duration(apiErr.RetryAfter) * time.Second, true
		}
		if apiErr.Code == 429 {
			return parseRetryAfter(strings.ToLower(apiErr.Message)), true
		}
	}
	text := strings.ToLower(err.Error())
	if !strings.Contains(text, "flood control") && !strings.Contains(text, "too many requests") {
		return 0, false
	}
	return parseRetryAfter(text), true
}

func parseRetryAfter(text string) time.Duration {
	m := retryAfterPattern.FindStringSubmatch(text)
	if len(m) != 2 {
		return defaultRetryAfter
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(n) * time.Second
}
