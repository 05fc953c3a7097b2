package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/machinekit/mkwrapper-go/internal/bridge"
	"github.com/machinekit/mkwrapper-go/internal/config"
	"github.com/machinekit/mkwrapper-go/internal/netselect"
	"github.com/machinekit/mkwrapper-go/internal/runtime"
)

// version is injected at build time via ldflags.
var version = "dev"

func main() {
	verbose := flag.Bool("verbose", getEnvBool("MKWRAPPER_VERBOSE", false), "Enable verbose logging")
	name := flag.String("name", os.Getenv("MKWRAPPER_NAME"), "Service name announced via mDNS (defaults to the ini's DISPLAY/NAME)")
	iniPath := flag.String("ini", "", "Path to the machine ini file (falls back to $INI_FILE_NAME or the first non-flag argument)")
	machinekitIni := flag.String("machinekit-ini", "", "Path to the machine-identity ini file (falls back to $MACHINEKIT_INI)")
	interfacePrefixes := flag.String("interfaces", "", "Comma-separated network interface name prefixes to try, in order (falls back to the machine-identity ini's INTERFACES)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mkwrapper %s\n", version)
		os.Exit(0)
	}

	logger := setupLogger(*verbose)

	resolvedIni := *iniPath
	if resolvedIni == "" {
		path, err := config.ResolveIniPath("INI_FILE_NAME", flag.Args())
		if err != nil {
			logger.WithError(err).Fatal("could not resolve machine ini path")
		}
		resolvedIni = path
	}

	resolvedMachinekitIni := *machinekitIni
	if resolvedMachinekitIni == "" {
		path, err := config.ResolveIniPath("MACHINEKIT_INI", nil)
		if err != nil {
			logger.WithError(err).Fatal("could not resolve machine-identity ini path")
		}
		resolvedMachinekitIni = path
	}

	cfg, err := config.Load(resolvedIni, *name, *verbose)
	if err != nil {
		logger.WithError(err).Fatal("failed to load machine ini")
	}

	machineCfg, err := config.LoadMachineConfig(resolvedMachinekitIni)
	if err != nil {
		logger.WithError(err).Fatal("failed to load machine-identity ini")
	}

	if !machineCfg.Remote {
		logger.Info("REMOTE=0 in machine-identity ini: remote access disabled, not starting")
		return
	}

	prefixes := machineCfg.Interfaces
	if *interfacePrefixes != "" {
		prefixes = splitCSV(*interfacePrefixes)
	}

	ip, iface, err := netselect.Select(prefixes, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to select a network interface")
	}

	logger.WithFields(cfg.LogFields()).WithFields(logrus.Fields{
		"version":   version,
		"interface": iface,
		"ip":        ip,
		"mkuuid":    machineCfg.MKUUID,
		"remote":    machineCfg.Remote,
	}).Info("starting mkwrapper")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sim := runtime.NewSimulator(logger)

	if err := bridge.Run(ctx, cfg, machineCfg, ip, sim, sim, logger); err != nil {
		logger.WithError(err).Fatal("mkwrapper exited with error")
	}
}

func setupLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1"
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
