package broadcast

import (
	loader "github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/telegram"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"go.opentelemetry.io/otel"
)

// ProviderSet 暴露群发任务的构造器。
var ProviderSet = wire.NewSet(ProvideRunner, NewLauncher)

// ProvideRunner 以配置与 Telegram 客户端组装 Runner。
func ProvideRunner(cfg loader.Broadcast, client *telegram.Client, logger log.Logger) (*Runner, error) {
	return NewRunner(RunnerParams{
		Sender: client,
		Config: Config{
			BatchSize:         cfg.BatchSize,
			PerRecipientDelay: cfg.PerRecipientDelay.Duration,
			BatchDelay:        cfg.BatchDelay.Duration,
			MaxAttempts:       cfg.MaxAttempts,
			RetryBuffer:       cfg.RetryBuffer.Duration,
		},
		Logger: logger,
		Meter:  otel.GetMeterProvider().Meter("animebot.broadcast"),
	})
}
