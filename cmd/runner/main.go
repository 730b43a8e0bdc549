package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"physgrid.dev/internal/persistence/kvs"
	persistlog "physgrid.dev/internal/persistence/log"
	"physgrid.dev/internal/sim/engine"
	"physgrid.dev/internal/sim/runner"
	"physgrid.dev/internal/sim/tuning"
	"physgrid.dev/internal/transport/bus"
)

func main() {
	var (
		brokerURL  = flag.String("broker", "ws://localhost:9001/bus", "message bus broker url")
		dbPath     = flag.String("db", "./data/physgrid.db", "key-value store path")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		traceTicks = flag.Bool("trace", false, "write per-tick timing traces")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[runner] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", *tuningPath)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	store, err := kvs.OpenSQLite(*dbPath)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer store.Close()

	b, err := bus.DialWS(*brokerURL, logger)
	if err != nil {
		logger.Fatalf("dial broker: %v", err)
	}
	defer b.Close()

	cfg := runner.Config{Tuning: tune, Logger: logger}
	if *traceTicks {
		tl := persistlog.NewTraceLogger(*dataDir)
		defer tl.Close()
		cfg.Trace = tl
	}

	world := engine.NewBasic(tune.Timestep(), tune.GravityY, tune.WatchMargin)
	r, err := runner.New(cfg, world, store, b)
	if err != nil {
		logger.Fatalf("create runner: %v", err)
	}
	logger.Printf("runner %s waiting for assignment", r.ID())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("runner: %v", err)
	}
}
