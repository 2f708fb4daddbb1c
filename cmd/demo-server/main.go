package main

import (
	"fmt"
	stdlog "log"

	"github.com/go-playground/validator/v10"

	"github.com/boarding-dev/placement-client/internal/demo"
	"github.com/boarding-dev/placement-client/internal/server"
	"github.com/boarding-dev/placement-client/pkg/config"
	"github.com/boarding-dev/placement-client/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		stdlog.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	sim := demo.New(cfg.Demo, validator.New(), logr)
	srv := server.New(cfg, sim, logr)

	addr := fmt.Sprintf(":%d", cfg.Demo.Port)
	logr.Sugar().Infow("demo server starting", "addr", addr, "env", cfg.Env)
	if err := srv.Run(addr); err != nil {
		logr.Sugar().Fatalw("server exited", "error", err)
	}
}
