package telegram

import "github.com/google/wire"

// ProviderSet exposes the Bot API client.
var ProviderSet = wire.NewSet(NewClient)
