package controllers

import (
	"context"

	"github.com/bionicotaku/lingo-services-animebot/internal/tasks/broadcast"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// Messenger 是控制器使用的出站能力，由 telegram.Client 实现。
type Messenger interface {
	Send(ctx context.Context, msg tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(ctx context.Context, req tgbotapi.Chattable) error
	Username() string
}

// BroadcastLauncher 后台启动群发任务。
type BroadcastLauncher interface {
	Launch(job broadcast.Job) uuid.UUID
}
