package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/odvcencio/sketchd/pkg/api"
	"github.com/odvcencio/sketchd/pkg/arduinocli"
	"github.com/odvcencio/sketchd/pkg/config"
	"github.com/odvcencio/sketchd/pkg/logging"
	"github.com/odvcencio/sketchd/pkg/sketchbook"
)

// Version information - set via ldflags during build
var (
	version   = "1.0.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (default: ~/.sketchd/config.yaml then ./.sketchd/config.yaml)")
		bindAddress   = flag.String("bind", "", "listen address, overrides config")
		sketchbookDir = flag.String("sketchbook", "", "sketchbook root directory, overrides config")
		logLevel      = flag.String("log-level", "", "minimum log level: debug|info|warn|error")
		showVersion   = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("sketchd %s (commit %s, built %s)\n", version, commit, buildDate)
		return
	}

	if err := run(*configPath, *bindAddress, *sketchbookDir, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, bindAddress, sketchbookDir, logLevel string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if bindAddress != "" {
		cfg.Server.BindAddress = bindAddress
	}
	if sketchbookDir != "" {
		cfg.Sketchbook.Dir = sketchbookDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.NewLogger(cfg.LogDir())
	if err != nil {
		return fmt.Errorf("opening log directory: %w", err)
	}
	defer logger.Close()
	if cfg.Logging.Level != "" {
		logger.SetMinLevel(logging.Level(cfg.Logging.Level))
	}

	root, err := cfg.SketchbookDir()
	if err != nil {
		return err
	}

	store, err := sketchbook.NewStore(root, logger)
	if err != nil {
		return fmt.Errorf("opening sketchbook at %s: %w", root, err)
	}
	if err := store.RebuildProjects(); err != nil {
		return fmt.Errorf("scanning projects: %w", err)
	}
	if err := store.RebuildLibraries(); err != nil {
		return fmt.Errorf("scanning libraries: %w", err)
	}

	cli := arduinocli.New(cfg.Arduino.Binary, cfg.Arduino.FQBN, logger)

	server := api.NewServer(api.Config{
		BindAddress:    cfg.Server.BindAddress,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, store, cli, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = logger.Info(logging.CategoryServer, "startup",
		fmt.Sprintf("sketchd %s serving %s on %s", version, root, cfg.Server.BindAddress),
		map[string]any{
			"projects":  len(store.ProjectNames()),
			"libraries": len(store.LibraryNames()),
		})

	return server.Start(ctx)
}
