package controllers

import (
	"github.com/bionicotaku/lingo-services-animebot/internal/infrastructure/telegram"
	"github.com/bionicotaku/lingo-services-animebot/internal/tasks/broadcast"

	"github.com/google/wire"
)

// ProviderSet exposes the dispatcher and binds its outbound ports for DI.
var ProviderSet = wire.NewSet(
	NewDispatcher,
	wire.Bind(new(Messenger), new(*telegram.Client)),
	wire.Bind(new(BroadcastLauncher), new(*broadcast.Launcher)),
)
