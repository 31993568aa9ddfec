package session

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
)

// Sweepable 是需要主动清理过期条目的存储。
type Sweepable interface {
	Sweep() int
}

// Sweeper 按 cron 表达式定期清理内存会话，实现 kratos transport.Server。
// 目标为 nil 时 Start/Stop 均为空操作。
type Sweeper struct {
	cron   *cron.Cron
	target Sweepable
	log    *log.Helper
}

// NewSweeper 注册清理任务，spec 支持 "@every 5m" 等描述符。
func NewSweeper(spec string, target Sweepable, logger log.Logger) (*Sweeper, error) {
	s := &Sweeper{
		target: target,
		log:    log.NewHelper(log.With(logger, "component", "session.sweeper")),
	}
	if target == nil {
		return s, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("session: schedule sweep %q: %w", spec, err)
	}
	s.cron = c
	return s, nil
}

// RunOnce 立即执行一次清理。
func (s *Sweeper) RunOnce() {
	if s.target == nil {
		return
	}
	if n := s.target.Sweep(); n > 0 {
		s.log.Debugf("session sweep removed %d expired entries", n)
	}
}

// Start 启动调度。
func (s *Sweeper) Start(context.Context) error {
	if s.cron != nil {
		s.cron.Start()
	}
	return nil
}

// Stop 停止调度并等待运行中的清理结束。
func (s *Sweeper) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
