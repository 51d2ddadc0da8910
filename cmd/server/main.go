package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/eduforge/mathcore/backend/internal/config"
	"github.com/eduforge/mathcore/backend/internal/logging"
	"github.com/eduforge/mathcore/backend/internal/monitoring"
	"github.com/eduforge/mathcore/backend/internal/server"
)

func main() {
	port := flag.String("port", "", "server port (overrides PORT)")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}

	var log *logging.Logger
	if *dev || cfg.Logging.Development {
		log = logging.NewDevelopment()
	} else {
		var err error
		log, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: false,
			OutputPaths: []string{"stdout"},
		})
		if err != nil {
			log = logging.NewDefault()
		}
	}
	defer log.Sync()

	metrics := monitoring.NewMetrics()
	srv := server.New(cfg, log, server.WithMetrics(metrics))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown error", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}
}
