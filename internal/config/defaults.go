package config

import "time"

// Central place for all application-wide timing constants and other defaults.
// Changing a value here immediately affects all components that import
// github.com/machinekit/mkwrapper-go/internal/config.

const (
	// DefaultCycleTime is used when the ini file omits DISPLAY.CYCLE_TIME.
	DefaultCycleTime = 100 * time.Millisecond

	// DefaultPingInterval is used when the ini file omits DISPLAY.PING_INTERVAL.
	DefaultPingInterval = 2 * time.Second

	// KeepaliveTimerMs is the value advertised in every FULL_UPDATE's
	// pparams block; clients are expected to treat a gap of roughly this
	// long with no traffic on a subscribed topic as a lost connection.
	KeepaliveTimerMs = 2000

	// FileServiceMaxConnections / FileServiceMaxConnectionsPerIP bound the
	// FTP-style file service per §4.H.
	FileServiceMaxConnections      = 256
	FileServiceMaxConnectionsPerIP = 5
)
