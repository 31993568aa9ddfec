package server

import (
	"context"
	"fmt"
	"sync"

	loader "github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/config_loader"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// UpdateSource 提供长轮询更新流。
type UpdateSource interface {
	Updates(timeout int) tgbotapi.UpdatesChannel
	StopUpdates()
}

// UpdateHandler 处理单个更新。
type UpdateHandler interface {
	Handle(ctx context.Context, upd tgbotapi.Update)
}

// BotServer 以 kratos transport.Server 的形式运行长轮询循环，按到达顺序串行分发。
type BotServer struct {
	source  UpdateSource
	handler UpdateHandler
	timeout int
	updates metric.Int64Counter
	log     *log.Helper

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ transport.Server = (*BotServer)(nil)

// NewBotServer 构造长轮询服务。tel 可为 nil（不记录指标）。
func NewBotServer(cfg loader.Telegram, source UpdateSource, handler UpdateHandler, tel *Telemetry, logger log.Logger) *BotServer {
	s := &BotServer{
		source:  source,
		handler: handler,
		timeout: cfg.PollTimeout,
		log:     log.NewHelper(log.With(logger, "module", "server.bot")),
	}
	if tel != nil {
		s.updates = tel.UpdatesCounter
	}
	return s
}

// Start 阻塞消费更新，直到 Stop 被调用或 ctx 结束。
func (s *BotServer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.mu.Lock()
	s.cancel, s.done = cancel, done
	s.mu.Unlock()
	defer close(done)

	updates := s.source.Updates(s.timeout)
	s.log.Infow("msg", "bot polling started", "timeout", s.timeout)
	for {
		select {
		case <-ctx.Done():
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			s.dispatch(ctx, upd)
		}
	}
}

// Stop 停止长轮询并等待当前更新处理完毕。
func (s *BotServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	s.source.StopUpdates()
	cancel()
	select {
	case <-done:
		s.log.Info("bot polling stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatch 隔离单个更新中的 panic，避免拖垮轮询循环。
func (s *BotServer) dispatch(ctx context.Context, upd tgbotapi.Update) {
	kind := updateKind(upd)
	defer func() {
		if r := recover(); r != nil {
			s.log.WithContext(ctx).Errorw("msg", "update handler panic", "update_id", upd.UpdateID, "kind", kind, "panic", fmt.Sprint(r))
		}
	}()
	if s.updates != nil {
		s.updates.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
	s.handler.Handle(ctx, upd)
}

func updateKind(upd tgbotapi.Update) string {
	switch {
	case upd.Message != nil:
		return "message"
	case upd.CallbackQuery != nil:
		return "callback_query"
	case upd.ChatJoinRequest != nil:
		return "chat_join_request"
	default:
		return "other"
	}
}
