// EmberDB - an in-memory Redis-compatible data store.
//
// Usage:
//
//	emberdb [flags]
//
// Flags override values from the config file and environment.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/emberdb/emberdb/internal/config"
	"github.com/emberdb/emberdb/internal/engine"
	"github.com/emberdb/emberdb/internal/logging"
	"github.com/emberdb/emberdb/internal/metrics"
	"github.com/emberdb/emberdb/internal/server"
	"github.com/emberdb/emberdb/internal/stats"
	"github.com/emberdb/emberdb/internal/store"
	"github.com/emberdb/emberdb/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "emberdb",
		Usage:   "in-memory Redis-compatible data store",
		Version: fmt.Sprintf("%s (built %s)", version.Version, version.BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML config file",
				EnvVars: []string{"EMBERDB_CONFIG"},
				Value:   "emberdb.yaml",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "TCP listen address",
			},
			&cli.StringFlag{
				Name:  "stats-addr",
				Usage: "HTTP stats/metrics listen address",
			},
			&cli.StringFlag{
				Name:  "loglevel",
				Usage: "log level: debug, info, warn, error",
			},
			&cli.IntFlag{
				Name:  "shards",
				Usage: "shard count per namespace (power of two)",
			},
			&cli.IntFlag{
				Name:  "maxclients",
				Usage: "maximum number of client connections",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "client idle timeout (0 = no timeout)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, cfg)

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	log.Info("emberdb starting",
		zap.String("version", version.Version),
		zap.String("addr", cfg.Addr),
		zap.String("stats_addr", cfg.StatsAddr),
		zap.Int("shards", cfg.Shards),
	)

	st := store.New(cfg.Shards)
	m := metrics.New()
	m.ObserveStore(st)

	eng := engine.New(st, m, log)
	defer eng.Close()

	srv := server.New(cfg.Addr, eng, m, log, server.Config{
		MaxClients: cfg.MaxClients,
		Timeout:    cfg.Timeout,
	})
	statsSrv := stats.New(cfg.StatsAddr, eng, m, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
		// Force exit if graceful shutdown stalls.
		time.AfterFunc(10*time.Second, func() { os.Exit(1) })
	}()

	go func() {
		if err := statsSrv.Start(ctx); err != nil {
			log.Error("stats server failed", zap.Error(err))
		}
	}()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Info("emberdb stopped")
	return nil
}

// applyFlags lets explicit CLI flags win over file and environment.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	if c.IsSet("stats-addr") {
		cfg.StatsAddr = c.String("stats-addr")
	}
	if c.IsSet("loglevel") {
		cfg.Log.Level = c.String("loglevel")
	}
	if c.IsSet("shards") {
		cfg.Shards = c.Int("shards")
	}
	if c.IsSet("maxclients") {
		cfg.MaxClients = c.Int("maxclients")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
}
