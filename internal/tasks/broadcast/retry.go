package broadcast

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/telegram"
)

// deliver 投递给单个收件人。限流类错误按服务端给出的等待时间加缓冲后重试，
// 最多 MaxAttempts 次；其余错误立即失败。
func (r *Runner) deliver(ctx context.Context, src Source, chatID int64) error {
	var err error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if err = src.deliver(ctx, r.sender, chatID); err == nil {
			r.metrics.recordDelivery(ctx, outcomeSuccess)
			return nil
		}
		wait, limited := telegram.RetryAfter(err)
		if !limited || attempt == r.cfg.MaxAttempts {
			break
		}
		r.metrics.recordRetry(ctx)
		if serr := r.sleep(ctx, wait+r.cfg.RetryBuffer); serr != nil {
			return serr
		}
	}
	r.metrics.recordDelivery(ctx, outcomeFailed)
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
