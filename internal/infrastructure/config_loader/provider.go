package loader

import (
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/logger"
	"github.com/google/wire"
)

// ProviderSet exposes configuration-derived dependencies for Wire graphs.
var ProviderSet = wire.NewSet(
	ProvideServiceMetadata,
	ProvideBootstrap,
	ProvideServerConfig,
	ProvideDataConfig,
	ProvidePostgresConfig,
	ProvideRedisConfig,
	ProvideTelegramConfig,
	ProvideSessionConfig,
	ProvideBroadcastConfig,
	ProvideLoggerConfig,
)

// ProvideServiceMetadata returns the resolved ServiceMetadata from the bundle.
func ProvideServiceMetadata(b *Bundle) ServiceMetadata {
	if b == nil {
		return ServiceMetadata{}
	}
	return b.Service
}

// ProvideBootstrap exposes the strongly typed bootstrap configuration.
func ProvideBootstrap(b *Bundle) *Bootstrap {
	if b == nil || b.Bootstrap == nil {
		return &Bootstrap{}
	}
	return b.Bootstrap
}

// ProvideServerConfig returns the server section of the bootstrap configuration.
func ProvideServerConfig(bc *Bootstrap) Server { return bc.Server }

// ProvideDataConfig returns the data section of the bootstrap configuration.
func ProvideDataConfig(bc *Bootstrap) Data { return bc.Data }

// ProvidePostgresConfig returns the postgres section.
func ProvidePostgresConfig(d Data) Postgres { return d.Postgres }

// ProvideRedisConfig returns the redis section.
func ProvideRedisConfig(d Data) Redis { return d.Redis }

// ProvideTelegramConfig returns the telegram section.
func ProvideTelegramConfig(bc *Bootstrap) Telegram { return bc.Telegram }

// ProvideSessionConfig returns the session section.
func ProvideSessionConfig(bc *Bootstrap) Session { return bc.Session }

// ProvideBroadcastConfig returns the broadcast section.
func ProvideBroadcastConfig(bc *Bootstrap) Broadcast { return bc.Broadcast }

// ProvideLoggerConfig maps service metadata and log level to logger.Config.
func ProvideLoggerConfig(meta ServiceMetadata, bc *Bootstrap) logger.Config {
	return logger.Config{
		Service: meta.Name,
		Version: meta.Version,
		HostID:  meta.InstanceID,
		Env:     meta.Environment,
		Level:   bc.Log.Level,
	}
}
