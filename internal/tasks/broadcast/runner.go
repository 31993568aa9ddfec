// Package broadcast 负责向全部用户分批群发一条消息，并在管理员会话中回显进度。
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-animebot/internal/views"

	"github.com/go-kratos/kratos/v2/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
)

// Sender 是群发使用的出站能力，由 telegram.Client 实现。
type Sender interface {
	Send(ctx context.Context, msg tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(ctx context.Context, req tgbotapi.Chattable) error
	CopyMessage(ctx context.Context, chatID, fromChatID int64, messageID int) error
	ForwardFromChannel(ctx context.Context, chatID int64, channelUsername string, messageID int) error
}

// Source 描述群发内容来源，只有 Copy 与 Forward 两种实现。
type Source interface {
	deliver(ctx context.Context, s Sender, chatID int64) error
	fmt.Stringer
}

// Copy 以复制方式转发管理员会话中的一条消息（不带来源标记）。
type Copy struct {
	FromChatID int64
	MessageID  int
}

func (c Copy) deliver(ctx context.Context, s Sender, chatID int64) error {
	return s.CopyMessage(ctx, chatID, c.FromChatID, c.MessageID)
}

func (c Copy) String() string { return fmt.Sprintf("copy:%d/%d", c.FromChatID, c.MessageID) }

// Forward 从公开频道转发一条消息。
type Forward struct {
	ChannelUsername string
	MessageID       int
}

func (f Forward) deliver(ctx context.Context, s Sender, chatID int64) error {
	return s.ForwardFromChannel(ctx, chatID, f.ChannelUsername, f.MessageID)
}

func (f Forward) String() string {
	return fmt.Sprintf("forward:@%s/%d", f.ChannelUsername, f.MessageID)
}

// Job 是一次群发任务。
type Job struct {
	ID          uuid.UUID
	AdminChatID int64
	Recipients  []int64
	Source      Source
}

// Result 汇总群发结果，Success+Failed+Skipped == Total。
type Result struct {
	Total   int
	Success int
	Failed  int
	Skipped int
}

// Config 控制节流与重试。
type Config struct {
	BatchSize         int
	PerRecipientDelay time.Duration
	BatchDelay        time.Duration
	MaxAttempts       int
	RetryBuffer       time.Duration
}

// Sleeper 在 ctx 取消时提前返回。
type Sleeper func(ctx context.Context, d time.Duration) error

// RunnerParams 注入构建 Runner 所需的依赖。
type RunnerParams struct {
	Sender Sender
	Config Config
	Logger log.Logger
	Meter  metric.Meter
	Sleep  Sleeper
}

// Runner 顺序执行群发任务。
type Runner struct {
	sender  Sender
	cfg     Config
	sleep   Sleeper
	metrics *broadcastMetrics
	log     *log.Helper
}

// NewRunner 构造群发 Runner。
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Sender == nil {
		return nil, errors.New("broadcast: sender is required")
	}
	cfg := params.Config
	if cfg.BatchSize <= 0 {
		return nil, errors.New("broadcast: batch size must be positive")
	}
	if cfg.MaxAttempts <= 0 {
		return nil, errors.New("broadcast: max attempts must be positive")
	}
	logger := params.Logger
	if logger == nil {
		logger = log.DefaultLogger
	}
	helper := log.NewHelper(log.With(logger, "task", "broadcast"))
	sleep := params.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	return &Runner{
		sender:  params.Sender,
		cfg:     cfg,
		sleep:   sleep,
		metrics: newBroadcastMetrics(params.Meter, helper),
		log:     helper,
	}, nil
}

// Run 执行群发：公告开始 → 分批投递并更新进度 → 汇总。
//
// AdminChatID 在收件人中出现的每一处都被跳过。编辑进度失败只记日志；
// 最终汇总编辑失败时改为发送新消息。ctx 取消时返回已完成部分的结果。
func (r *Runner) Run(ctx context.Context, job Job) (Result, error) {
	if job.Source == nil {
		return Result{}, errors.New("broadcast: source is required")
	}
	res := Result{Total: len(job.Recipients)}
	r.metrics.recordRun(ctx)
	r.log.WithContext(ctx).Infow("msg", "broadcast started", "broadcast_id", job.ID.String(),
		"source", job.Source.String(), "recipients", res.Total)

	progressID := r.announce(ctx, job, res.Total)

	for start := 0; start < len(job.Recipients); start += r.cfg.BatchSize {
		end := min(start+r.cfg.BatchSize, len(job.Recipients))
		for _, chatID := range job.Recipients[start:end] {
			if chatID == job.AdminChatID {
				res.Skipped++
				r.metrics.recordDelivery(ctx, outcomeSkipped)
				continue
			}
			if err := r.deliver(ctx, job.Source, chatID); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return res, ctxErr
				}
				res.Failed++
				r.log.WithContext(ctx).Debugw("msg", "broadcast delivery failed", "broadcast_id", job.ID.String(),
					"chat_id", chatID, "error", err)
			} else {
				res.Success++
			}
			if err := r.sleep(ctx, r.cfg.PerRecipientDelay); err != nil {
				return res, err
			}
		}

		r.editProgress(ctx, job.AdminChatID, progressID,
			views.BroadcastProgressText(res.Total, res.Success, res.Failed, res.Total-end))
		if err := r.sleep(ctx, r.cfg.BatchDelay); err != nil {
			return res, err
		}
	}

	r.finish(ctx, job, progressID, res)
	r.log.WithContext(ctx).Infow("msg", "broadcast finished", "broadcast_id", job.ID.String(),
		"total", res.Total, "success", res.Success, "failed", res.Failed, "skipped", res.Skipped)
	return res, nil
}

// announce 发送开始消息，返回其 message id；失败返回 0，后续进度编辑被跳过。
func (r *Runner) announce(ctx context.Context, job Job, total int) int {
	msg := tgbotapi.NewMessage(job.AdminChatID, views.BroadcastStartedText(total))
	msg.ParseMode = tgbotapi.ModeHTML
	sent, err := r.sender.Send(ctx, msg)
	if err != nil {
		r.log.WithContext(ctx).Warnw("msg", "broadcast announce failed", "broadcast_id", job.ID.String(), "error", err)
		return 0
	}
	return sent.MessageID
}

func (r *Runner) editProgress(ctx context.Context, chatID int64, messageID int, text string) {
	if messageID == 0 {
		return
	}
	if err := r.sender.Request(ctx, tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		r.log.WithContext(ctx).Debugw("msg", "broadcast progress edit failed", "error", err)
	}
}

func (r *Runner) finish(ctx context.Context, job Job, progressID int, res Result) {
	text := views.BroadcastDoneText(res.Total, res.Success, res.Failed)
	if progressID != 0 {
		edit := tgbotapi.NewEditMessageText(job.AdminChatID, progressID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		if err := r.sender.Request(ctx, edit); err == nil {
			return
		}
	}
	msg := tgbotapi.NewMessage(job.AdminChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := r.sender.Send(ctx, msg); err != nil {
		r.log.WithContext(ctx).Warnw("msg", "broadcast summary failed", "broadcast_id", job.ID.String(), "error", err)
	}
}
