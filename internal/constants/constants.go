package constants

import "time"

const (
	DefaultPollInterval = 5 * time.Second
	MinPollInterval     = 1 * time.Second
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	// PerPageDefault is the page size requested from the listing endpoints.
	PerPageDefault = 250
	// MaxPages caps auto-pagination so a bad last_page value cannot loop forever.
	MaxPages = 200
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	ChangeLogDefaultLimit = 100
	ChangeLogMaxLimit     = 1000
)
