package broadcast

import (
	"context"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// Launcher 在应用生命周期内后台执行群发任务，实现 kratos transport.Server。
// 任务不受触发它的更新影响，进程关闭时取消并等待其退出。
type Launcher struct {
	runner *Runner
	log    *log.Helper

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLauncher 构造 Launcher。
func NewLauncher(runner *Runner, logger log.Logger) *Launcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Launcher{
		runner: runner,
		log:    log.NewHelper(log.With(logger, "task", "broadcast")),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Launch 异步启动任务并返回任务 ID。
func (l *Launcher) Launch(job Job) uuid.UUID {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if _, err := l.runner.Run(l.ctx, job); err != nil {
			l.log.Warnw("msg", "broadcast aborted", "broadcast_id", job.ID.String(), "error", err)
		}
	}()
	return job.ID
}

// Start 满足 transport.Server；任务按需启动。
func (l *Launcher) Start(context.Context) error { return nil }

// Stop 取消进行中的任务并等待退出，受 ctx 截止时间约束。
func (l *Launcher) Stop(ctx context.Context) error {
	l.cancel()
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
