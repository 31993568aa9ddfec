package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-animebot/internal/metadata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandlerType 表示 Handler 的语义类别，用于选择超时策略。
type HandlerType int

const (
	// HandlerTypeDefault 表示未显式区分的 Handler。
	HandlerTypeDefault HandlerType = iota
	// HandlerTypeCommand 表示管理员写操作（向导、发帖）。
	HandlerTypeCommand
	// HandlerTypeQuery 表示普通用户的读操作（领取、搜索）。
	HandlerTypeQuery
)

// HandlerTimeouts 聚合不同类型 Handler 的超时策略。
type HandlerTimeouts struct {
	Default time.Duration
	Command time.Duration
	Query   time.Duration
}

const (
	fallbackDefaultTimeout = 15 * time.Second
	fallbackCommandTimeout = 60 * time.Second
	fallbackQueryTimeout   = 10 * time.Second
)

// BaseHandler 提供公共的超时与 Actor 解析能力，供 Dispatcher 内嵌复用。
type BaseHandler struct {
	timeouts HandlerTimeouts
}

// NewBaseHandler 构造基础 Handler，并为缺省值填充回退策略。
func NewBaseHandler(timeouts HandlerTimeouts) *BaseHandler {
	if timeouts.Default <= 0 {
		timeouts.Default = fallbackDefaultTimeout
	}
	if timeouts.Command <= 0 {
		timeouts.Command = fallbackCommandTimeout
	}
	if timeouts.Query <= 0 {
		timeouts.Query = fallbackQueryTimeout
	}
	return &BaseHandler{timeouts: timeouts}
}

// WithTimeout 根据 Handler 类型包装上下文，返回绑定超时的新 Context 与取消函数。
func (h *BaseHandler) WithTimeout(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	if h == nil {
		return context.WithTimeout(ctx, fallbackDefaultTimeout)
	}
	var timeout time.Duration
	switch kind {
	case HandlerTypeCommand:
		timeout = h.timeouts.Command
	case HandlerTypeQuery:
		timeout = h.timeouts.Query
	default:
		timeout = h.timeouts.Default
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// ExtractActor 从更新中解析触发者；无发送者的更新（频道帖等）返回零值。
func (h *BaseHandler) ExtractActor(upd tgbotapi.Update) metadata.Actor {
	actor := metadata.Actor{UpdateID: upd.UpdateID}
	var user *tgbotapi.User
	switch {
	case upd.Message != nil:
		user = upd.Message.From
		if upd.Message.Chat != nil {
			actor.ChatID = upd.Message.Chat.ID
		}
	case upd.CallbackQuery != nil:
		user = upd.CallbackQuery.From
		if upd.CallbackQuery.Message != nil && upd.CallbackQuery.Message.Chat != nil {
			actor.ChatID = upd.CallbackQuery.Message.Chat.ID
		}
	case upd.ChatJoinRequest != nil:
		user = &upd.ChatJoinRequest.From
		actor.ChatID = upd.ChatJoinRequest.Chat.ID
	}
	if user == nil {
		return metadata.Actor{}
	}
	actor.UserID = user.ID
	actor.FullName = fullName(user)
	if actor.ChatID == 0 {
		actor.ChatID = user.ID
	}
	return actor
}

func fullName(u *tgbotapi.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.UserName
	}
	return name
}
