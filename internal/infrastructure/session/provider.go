package session

import (
	"context"
	"fmt"
	"time"

	loader "github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/config_loader"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet 暴露会话存储与清理器。
var ProviderSet = wire.NewSet(ProvideStore, ProvideSweeper)

// ProvideStore 按配置选择后端；redis 后端在启动时 Ping 一次。
func ProvideStore(cfg loader.Session, rcfg loader.Redis, logger log.Logger) (Store, func(), error) {
	helper := log.NewHelper(logger)
	switch cfg.Backend {
	case loader.SessionBackendRedis:
		client, err := NewRedisClient(rcfg.Addr, rcfg.Password, rcfg.DB)
		if err != nil {
			return nil, nil, err
		}
		store := NewRedisStore(client, cfg.KeyPrefix, cfg.TTL.Duration)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("session: ping redis: %w", err)
		}
		helper.Infof("session store: redis ttl=%s", cfg.TTL.Duration)
		return store, func() {
			if err := client.Close(); err != nil {
				helper.Warnf("close redis client: %v", err)
			}
		}, nil
	default:
		helper.Infof("session store: memory ttl=%s", cfg.TTL.Duration)
		return NewMemoryStore(cfg.TTL.Duration), func() {}, nil
	}
}

// ProvideSweeper 仅为需要主动清理的存储创建调度。
func ProvideSweeper(cfg loader.Session, store Store, logger log.Logger) (*Sweeper, error) {
	target, _ := store.(Sweepable)
	return NewSweeper(cfg.SweepSpec, target, logger)
}
