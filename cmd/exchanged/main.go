package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bttger/bloomberg-exchange-hackatum2022/params"
	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/api"
	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/engine"
	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/storage"
	"github.com/bttger/bloomberg-exchange-hackatum2022/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("") // "" means load .env from the current directory

	logger, err := util.NewLoggerWithFile(cfg.Storage.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Storage.LogFile)

	// Event sink: Pebble when a data dir is configured, no-op otherwise.
	var sink engine.EventSink = engine.NopSink{}
	if cfg.Storage.DataDir != "" {
		ps, err := storage.NewPebbleSink(cfg.Storage.DataDir)
		if err != nil {
			sugar.Fatalw("event_store_open_failed", "dir", cfg.Storage.DataDir, "err", err)
		}
		defer ps.Close()
		sink = ps
		sugar.Infow("event_store_opened", "dir", cfg.Storage.DataDir)
	}

	// Fills go out to websocket subscribers after they hit the sink.
	hub := api.NewHub(sugar)

	eng := engine.New(engine.Config{
		Sink:        sink,
		Logger:      sugar,
		RecentFills: cfg.Engine.RecentFills,
		OnFill:      hub.BroadcastFill,
	})
	defer eng.Close()

	server := api.NewServer(eng, hub, sugar)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.ListenAddr)
	}()

	select {
	case err := <-errCh:
		sugar.Fatalw("server_failed", "err", err)
	case <-ctx.Done():
		sugar.Info("shutting down")
		eng.Flush()
	}
}
