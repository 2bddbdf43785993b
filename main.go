package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/dskvich/clinical-console/pkg/api/handler"
	"github.com/dskvich/clinical-console/pkg/logger"
	"github.com/dskvich/clinical-console/pkg/modal"
	"github.com/dskvich/clinical-console/pkg/service"
	"github.com/dskvich/clinical-console/pkg/workers"
)

type Config struct {
	HTTPAddr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ModalEndpoint       string        `env:"MODAL_ENDPOINT"`
	PublicModalEndpoint string        `env:"PUBLIC_MODAL_ENDPOINT"`
	UpstreamTimeout     time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"2m"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogNoColor          bool          `env:"LOG_NO_COLOR"`
}

// Endpoint resolves the upstream URL: private key, then public key, then
// the built-in default.
func (c Config) Endpoint() string {
	return modal.ResolveEndpoint(c.ModalEndpoint, c.PublicModalEndpoint)
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.NewOptions(cfg.LogLevel, cfg.LogNoColor))))

	group := setupServices(cfg)

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return group.Run(ctx)
}

func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}
	return cfg, nil
}

func setupServices(cfg Config) service.Group {
	gin.SetMode(gin.ReleaseMode)

	upstream := modal.NewClient(cfg.Endpoint(), cfg.UpstreamTimeout)
	slog.Info("relaying chat messages", "upstream", upstream.Endpoint(), "timeout", cfg.UpstreamTimeout)

	relay := handler.NewRelay(upstream)

	return service.Group{
		workers.NewHTTPServer(cfg.HTTPAddr, relay, cfg.ShutdownTimeout),
	}
}
