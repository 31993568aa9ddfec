// Package metadata 提供 Actor 在 Context 中的存取工具，供控制器与服务层共享。
package metadata

import (
	"context"

	"github.com/google/uuid"
)

// Actor 描述触发当前更新的 Telegram 用户。
type Actor struct {
	UserID   int64
	ChatID   int64
	FullName string
	IsAdmin  bool
	UpdateID int
	TraceID  uuid.UUID // 日志关联 ID，每个更新一份
}

// IsZero 判断 Actor 是否为空。
func (a Actor) IsZero() bool {
	return a.UserID == 0 && a.ChatID == 0
}

type ctxKey struct{}

// Inject 将 Actor 注入 Context，缺失 TraceID 时补齐。
func Inject(ctx context.Context, actor Actor) context.Context {
	if actor.IsZero() {
		return ctx
	}
	if actor.TraceID == uuid.Nil {
		actor.TraceID = uuid.New()
	}
	return context.WithValue(ctx, ctxKey{}, actor)
}

// FromContext 读取 Actor。
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(ctxKey{}).(Actor)
	return actor, ok
}
