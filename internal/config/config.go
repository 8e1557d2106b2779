package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	BackendURL       string `env:"BACKEND_URL" envDefault:"http://localhost:8081"`
	BackendTimeoutS  int    `env:"BACKEND_TIMEOUT_S" envDefault:"10"`
	SecureStorePath  string `env:"SECURE_STORE_PATH" envDefault:"wallet.db"`
	HistoryPageSize  int    `env:"HISTORY_PAGE_SIZE" envDefault:"50"`
	RecentRecipients int    `env:"RECENT_RECIPIENTS" envDefault:"5"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv           string `env:"APP_ENV" envDefault:"production"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
