package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	DefaultSessionTTL      = 30 * 24 * time.Hour
	DefaultHistoryCacheTTL = 30 * time.Second
	// every 5 minutes, on the minute
	DefaultSyncCron = "0 */5 * * * *"
)
