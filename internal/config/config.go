// Package config loads the two ini files the bridge needs (the machine
// instance config and the main machine ini) plus CLI/env overrides, mirroring
// the teacher's flags+env internal/config package but backed by
// gopkg.in/ini.v1 where the teacher only had flag.BoolVar/os.Getenv.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"github.com/machinekit/mkwrapper-go/internal/status"
)

// MachineConfig is the small machine-identity ini (env MACHINEKIT_INI):
// the service UUID, whether remote access is enabled at all, and the
// ordered list of interface-name prefixes to try when binding sockets.
type MachineConfig struct {
	MKUUID     string
	Remote     bool
	Interfaces []string
}

// LoadMachineConfig reads the machine-config ini from path. section
// "MACHINEKIT" supplies MKUUID, REMOTE, and INTERFACES (a space-separated
// prefix list, tried in order by internal/netselect).
func LoadMachineConfig(path string) (*MachineConfig, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: load machine ini %q: %w", path, err)
	}
	sec := f.Section("MACHINEKIT")
	mc := &MachineConfig{
		MKUUID: sec.Key("MKUUID").String(),
		Remote: sec.Key("REMOTE").MustInt(0) != 0,
	}
	if raw := strings.TrimSpace(sec.Key("INTERFACES").String()); raw != "" {
		mc.Interfaces = strings.Fields(raw)
	}
	return mc, nil
}

// Config is the main machine ini plus process-level overrides (CLI flags,
// env vars). ServiceName and Verbose are process-level (SUPPLEMENTED
// FEATURES); everything else is sourced from the [DISPLAY]/[TRAJ] sections
// of the main ini.
type Config struct {
	ServiceName string
	Verbose     bool

	CycleTime    time.Duration
	PingInterval time.Duration

	ProgramDirectory string

	Static status.StaticConfig
}

// Load reads the main ini from path and applies process-level overrides.
// serviceName and verbose come from CLI flags / MKWRAPPER_VERBOSE and take
// priority over the ini's [DISPLAY] NAME key, matching mkwrapper's
// argparse-overrides-ini behaviour.
func Load(path, serviceName string, verbose bool) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: load ini %q: %w", path, err)
	}
	display := f.Section("DISPLAY")
	traj := f.Section("TRAJ")

	cycleTime := DefaultCycleTime
	if v := display.Key("CYCLE_TIME").MustFloat64(0); v > 0 {
		cycleTime = time.Duration(v * float64(time.Second))
	}
	pingInterval := DefaultPingInterval
	if display.HasKey("PING_INTERVAL") {
		pingInterval = time.Duration(display.Key("PING_INTERVAL").MustFloat64(2.0) * float64(time.Second))
	}

	name := serviceName
	if name == "" {
		name = display.Key("NAME").MustString("mkwrapper")
	}

	progDir := display.Key("PROGRAM_PREFIX").String()
	if progDir == "" {
		progDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("config: resolve program directory: %w", err)
		}
	}

	cfg := &Config{
		ServiceName:      name,
		Verbose:          verbose,
		CycleTime:        cycleTime,
		PingInterval:     pingInterval,
		ProgramDirectory: progDir,
		Static: status.StaticConfig{
			DefaultVelocity:     traj.Key("DEFAULT_VELOCITY").MustFloat64(1.0),
			DefaultAcceleration: traj.Key("DEFAULT_ACCELERATION").MustFloat64(10.0),
			FeedOverrideMax:     display.Key("MAX_FEED_OVERRIDE").MustFloat64(1.2),
			SpindleOverrideMax:  display.Key("MAX_SPINDLE_OVERRIDE").MustFloat64(1.0),
			Increments:          display.Key("INCREMENTS").MustString(""),
			Grids:               display.Key("GRIDS").MustString(""),
			Lathe:               display.Key("LATHE").MustBool(false),
			Geometry:            display.Key("GEOMETRY").MustString("XYZ"),
			ArcDivision:         display.Key("ARC_DIVISION").MustInt(64),
			NoForceHoming:       display.Key("NO_FORCE_HOMING").MustBool(false),
			ProgramExtensions:   display.Key("PROGRAM_EXTENSIONS").ValueWithShadows(),
			PositionOffset:      display.Key("POSITION_OFFSET").MustInt(0),
			PositionFeedback:    display.Key("POSITION_FEEDBACK").MustInt(0),
		},
	}
	return cfg, nil
}

// ResolveIniPath mirrors mkwrapper's own lookup order: env var, then the
// first non-flag CLI argument.
func ResolveIniPath(envVar string, args []string) (string, error) {
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a, nil
		}
	}
	return "", fmt.Errorf("config: no ini path given via %s or argv", envVar)
}

// LogFields renders a Config as structured logrus fields for startup
// diagnostics.
func (c *Config) LogFields() logrus.Fields {
	return logrus.Fields{
		"service_name":  c.ServiceName,
		"cycle_time":    c.CycleTime,
		"ping_interval": c.PingInterval,
		"program_dir":   c.ProgramDirectory,
	}
}
