package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIni(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadMachineConfigParsesInterfacesAndRemote(t *testing.T) {
	path := writeIni(t, `
[MACHINEKIT]
MKUUID = 1234-5678
REMOTE = 1
INTERFACES = eth wlan
`)
	mc, err := LoadMachineConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "1234-5678", mc.MKUUID)
	assert.True(t, mc.Remote)
	assert.Equal(t, []string{"eth", "wlan"}, mc.Interfaces)
}

func TestLoadMachineConfigDefaultsWhenKeysMissing(t *testing.T) {
	path := writeIni(t, `
[MACHINEKIT]
MKUUID = abc
`)
	mc, err := LoadMachineConfig(path)
	require.NoError(t, err)
	assert.False(t, mc.Remote)
	assert.Nil(t, mc.Interfaces)
}

func TestLoadAppliesDefaultsWhenIniOmitsThem(t *testing.T) {
	path := writeIni(t, `
[DISPLAY]
NAME = linuxcnc
`)
	cfg, err := Load(path, "", false)
	require.NoError(t, err)
	assert.Equal(t, "linuxcnc", cfg.ServiceName)
	assert.Equal(t, DefaultCycleTime, cfg.CycleTime)
	assert.Equal(t, DefaultPingInterval, cfg.PingInterval)
}

func TestLoadServiceNameOverridesIniName(t *testing.T) {
	path := writeIni(t, `
[DISPLAY]
NAME = linuxcnc
`)
	cfg, err := Load(path, "override-name", false)
	require.NoError(t, err)
	assert.Equal(t, "override-name", cfg.ServiceName)
}

func TestLoadCycleTimeAndPingIntervalFromIni(t *testing.T) {
	path := writeIni(t, `
[DISPLAY]
CYCLE_TIME = 0.05
PING_INTERVAL = 5.0
`)
	cfg, err := Load(path, "", false)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, cfg.CycleTime)
	assert.Equal(t, 5*time.Second, cfg.PingInterval)
}

func TestLoadStaticConfigFieldsFromTrajAndDisplay(t *testing.T) {
	path := writeIni(t, `
[DISPLAY]
MAX_FEED_OVERRIDE = 1.5
LATHE = 1
GEOMETRY = XYZBC

[TRAJ]
DEFAULT_VELOCITY = 2.5
DEFAULT_ACCELERATION = 20
`)
	cfg, err := Load(path, "", false)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Static.DefaultVelocity)
	assert.Equal(t, 20.0, cfg.Static.DefaultAcceleration)
	assert.Equal(t, 1.5, cfg.Static.FeedOverrideMax)
	assert.True(t, cfg.Static.Lathe)
	assert.Equal(t, "XYZBC", cfg.Static.Geometry)
}

func TestLoadProgramDirectoryDefaultsToWorkingDirectory(t *testing.T) {
	path := writeIni(t, `
[DISPLAY]
NAME = linuxcnc
`)
	cfg, err := Load(path, "", false)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, cfg.ProgramDirectory)
}

func TestResolveIniPathPrefersEnvVar(t *testing.T) {
	t.Setenv("MKWRAPPER_TEST_INI", "/from/env.ini")
	path, err := ResolveIniPath("MKWRAPPER_TEST_INI", []string{"/from/argv.ini"})
	require.NoError(t, err)
	assert.Equal(t, "/from/env.ini", path)
}

func TestResolveIniPathFallsBackToFirstNonFlagArg(t *testing.T) {
	t.Setenv("MKWRAPPER_TEST_INI_UNSET", "")
	path, err := ResolveIniPath("MKWRAPPER_TEST_INI_UNSET", []string{"-verbose", "/from/argv.ini"})
	require.NoError(t, err)
	assert.Equal(t, "/from/argv.ini", path)
}

func TestResolveIniPathErrorsWhenNothingGiven(t *testing.T) {
	t.Setenv("MKWRAPPER_TEST_INI_UNSET2", "")
	_, err := ResolveIniPath("MKWRAPPER_TEST_INI_UNSET2", []string{"-verbose"})
	assert.Error(t, err)
}
