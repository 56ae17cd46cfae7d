// Package config предоставляет структуры и функцию для парсинга и загрузки конфига клиента.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек клиента.
type Config struct {
	Env      string `yaml:"env" env:"BCARD_ENV" env-default:"local"`
	StateDir string `yaml:"state_dir" env:"BCARD_STATE_DIR"`
	API      `yaml:"api"`
	Client   `yaml:"client"`
	Stub     `yaml:"stub"`
}

// API структура для настройки подключения к удалённому bcard API.
type API struct {
	BaseURL string        `yaml:"base_url" env:"BCARD_API_URL" env-default:"https://monkfish-app-z9uza.ondigitalocean.app/bcard2"`
	Timeout time.Duration `yaml:"timeout" env:"BCARD_API_TIMEOUT" env-default:"10s"`
}

// Client структура для настройки поведения HTTP-клиента.
type Client struct {
	RateLimit float64 `yaml:"rate_limit" env:"BCARD_RATE_LIMIT" env-default:"5"`
	RateBurst int     `yaml:"rate_burst" env:"BCARD_RATE_BURST" env-default:"10"`
}

// Stub структура для настройки локальной заглушки bcard API.
type Stub struct {
	Address     string        `yaml:"address" env:"BCARD_STUB_ADDRESS" env-default:"localhost:8080"`
	Secret      string        `yaml:"secret" env:"BCARD_STUB_SECRET" env-default:"local-dev-secret"`
	TokenTTL    time.Duration `yaml:"token_ttl" env:"BCARD_STUB_TOKEN_TTL" env-default:"24h"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"BCARD_STUB_IDLE_TIMEOUT" env-default:"60s"`
}

// MustLoad функция для загрузки конфига. Путь к файлу берётся из CONFIG_PATH;
// если переменная не задана, конфиг собирается только из переменных окружения
// и значений по умолчанию.
func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("file: %s - does not exist", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("cannot resolve home directory: %s", err)
		}
		cfg.StateDir = filepath.Join(home, ".bcard")
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StateDir: %s\n"+
			"API:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"Client:\n"+
			"  RateLimit: %g\n"+
			"  RateBurst: %d\n",
		c.Env,
		c.StateDir,
		c.BaseURL,
		c.Timeout,
		c.RateLimit,
		c.RateBurst,
	)
}
