package database

import (
	"context"
	"fmt"
	"time"

	loader "github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/config_loader"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pinger 抽象连接池的存活探测能力。
type Pinger interface {
	Ping(ctx context.Context) error
}

var _ Pinger = (*pgxpool.Pool)(nil)

// Probe 对数据库执行存活探测，失败时按固定间隔重试。
// 返回最后一次成功探测的往返耗时；重试耗尽返回错误。
func Probe(ctx context.Context, db Pinger, attempts int, delay time.Duration) (time.Duration, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 1; i <= attempts; i++ {
		start := time.Now()
		err := db.Ping(ctx)
		if err == nil {
			return time.Since(start), nil
		}
		lastErr = err
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(delay):
		}
	}
	return 0, fmt.Errorf("database probe failed after %d attempts: %w", attempts, lastErr)
}

// ProbePolicy 是运行期存活探测的重试策略。
type ProbePolicy struct {
	Attempts int
	Delay    time.Duration
}

// NewProbePolicy 从 postgres 配置读取探测策略。
func NewProbePolicy(cfg loader.Postgres) ProbePolicy {
	return ProbePolicy{Attempts: cfg.ProbeAttempts, Delay: cfg.ProbeDelay.Duration}
}

// Probe 按策略探测 db。
func (p ProbePolicy) Probe(ctx context.Context, db Pinger) (time.Duration, error) {
	return Probe(ctx, db, p.Attempts, p.Delay)
}
