//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"context"

	"github.com/bionicotaku/lingo-services-animebot/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/session"
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/telegram"
	"github.com/bionicotaku/lingo-services-animebot/internal/repositories"
	"github.com/bionicotaku/lingo-services-animebot/internal/server"
	"github.com/bionicotaku/lingo-services-animebot/internal/services"
	"github.com/bionicotaku/lingo-services-animebot/internal/tasks/broadcast"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
)

// storageSet binds the postgres repositories to the service-side interfaces.
var storageSet = wire.NewSet(
	database.ProviderSet,
	repositories.ProviderSet,
	wire.Bind(new(database.Pinger), new(*pgxpool.Pool)),
	wire.Bind(new(services.TitleRepo), new(*repositories.TitleRepository)),
	wire.Bind(new(services.StatsRepo), new(*repositories.StatsRepository)),
	wire.Bind(new(services.UserRepo), new(*repositories.UserRepository)),
	wire.Bind(new(services.AdminRepo), new(*repositories.AdminRepository)),
	wire.Bind(new(services.ChannelRepo), new(*repositories.ChannelRepository)),
	wire.Bind(new(services.JoinRequestRepo), new(*repositories.JoinRequestRepository)),
)

var telegramSet = wire.NewSet(
	telegram.ProviderSet,
	wire.Bind(new(services.MembershipChecker), new(*telegram.Client)),
	wire.Bind(new(services.ChatInspector), new(*telegram.Client)),
	wire.Bind(new(server.UpdateSource), new(*telegram.Client)),
	wire.Bind(new(server.UpdateHandler), new(*controllers.Dispatcher)),
)

// wireApp init kratos application.
func wireApp(context.Context, *loader.Bundle, log.Logger) (*application, func(), error) {
	panic(wire.Build(
		loader.ProviderSet,
		storageSet,
		telegramSet,
		session.ProviderSet,
		services.ProviderSet,
		broadcast.ProviderSet,
		controllers.ProviderSet,
		server.ProviderSet,
		newApp,
		newApplication,
	))
}

// wireMaintenance builds the storage-only graph used by migrate/admins.
func wireMaintenance(context.Context, *loader.Bundle, log.Logger) (*maintenance, func(), error) {
	panic(wire.Build(
		loader.ProviderSet,
		storageSet,
		services.NewAdminService,
		newMaintenance,
	))
}
