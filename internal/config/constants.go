package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// AdminSessionTTL is the fixed lifetime of an admin session. There is no
// sliding expiry: a session ends exactly this long after login.
const AdminSessionTTL = 24 * time.Hour

// Background job intervals
const SessionSweepInterval = 5 * time.Minute

// Cache TTL for the public package listing
const PackageCacheTTL = 5 * time.Minute
