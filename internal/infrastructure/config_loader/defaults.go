package loader

import "time"

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

const (
	// defaultConfPath is the fallback configuration directory when no overrides are provided.
	defaultConfPath = "configs"
	// envConfPath is the env var name that overrides configuration directory when flag is absent.
	envConfPath = "CONF_PATH"
	// defaultEnvironment is used when APP_ENV is missing.
	defaultEnvironment = "development"

	defaultServiceName    = "animebot"
	defaultServiceVersion = "dev"
	defaultHTTPAddr       = "0.0.0.0:8080"
	defaultLogLevel       = "info"

	// Pool sizing mirrors the hosted pooler limits the bot was sized for.
	defaultMaxOpenConns      int32 = 15
	defaultMinOpenConns      int32 = 1
	defaultConnectRetries          = 5
	defaultConnectRetryDelay       = 2 * time.Second
	defaultProbeAttempts           = 3
	defaultProbeDelay              = 250 * time.Millisecond

	defaultPollTimeout = 60

	defaultSessionTTL       = 30 * time.Minute
	defaultSweepSpec        = "@every 5m"
	defaultSessionKeyPrefix = "animebot:session:"

	defaultBatchSize         = 15
	defaultPerRecipientDelay = 100 * time.Millisecond
	defaultBatchDelay        = 2 * time.Second
	defaultMaxAttempts       = 5
	defaultRetryBuffer       = time.Second
)

// defaultSeedAdmins is applied when telegram.seed_admins is empty.
var defaultSeedAdmins = []int64{6486825926, 5492962467}
