package server

import "github.com/google/wire"

// ProviderSet exposes the transport servers and telemetry for Wire.
var ProviderSet = wire.NewSet(NewTelemetry, NewHTTPServer, NewBotServer)
