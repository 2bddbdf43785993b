package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/dskvich/clinical-console/pkg/console"
	"github.com/dskvich/clinical-console/pkg/logger"
	"github.com/dskvich/clinical-console/pkg/relay"
)

type Config struct {
	RelayURL     string        `env:"RELAY_URL" envDefault:"http://localhost:8080/api/chat"`
	RelayTimeout time.Duration `env:"RELAY_TIMEOUT" envDefault:"3m"`
	LogFile      string        `env:"CONSOLE_LOG_FILE"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	if err := runMain(); err != nil {
		fmt.Fprintln(os.Stderr, "console:", err)
		os.Exit(1)
	}
}

func runMain() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing env config: %w", err)
	}

	logWriter, err := logger.NewFileWriter(logPath(cfg.LogFile))
	if err != nil {
		return err
	}
	defer logWriter.Close()
	slog.SetDefault(slog.New(logger.NewHandler(logWriter, logger.NewOptions(cfg.LogLevel, true))))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.Info("console started", "relay", cfg.RelayURL, "timeout", cfg.RelayTimeout)
	defer slog.Info("console stopped")

	model := console.NewModel(ctx, relay.NewClient(cfg.RelayURL, cfg.RelayTimeout))
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running console: %w", err)
	}
	return nil
}

func logPath(configured string) string {
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".clinical-console", "console.log")
	}
	return filepath.Join(home, ".clinical-console", "console.log")
}
