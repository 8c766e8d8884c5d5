package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

// TimeZone - таймзона приложения по умолчанию, выставляется в NewConfig
var TimeZone = time.UTC

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"America/New_York"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Ehr struct {
		URL      string `env:"EHR_URL"`
		Username string `env:"EHR_USERNAME"`
		Password string `env:"EHR_PASSWORD"`

		// Служебный пользователь, от имени которого МИС принимает запросы расписания
		UserID     string `env:"EHR_USER_ID"`
		UserIDType string `env:"EHR_USER_ID_TYPE" envDefault:"INTERNAL"`

		TimeoutSeconds int `env:"EHR_TIMEOUT_SECONDS" envDefault:"10"`
		RetryCount     int `env:"EHR_RETRY_COUNT" envDefault:"2"`
		RetryBackoffMs int `env:"EHR_RETRY_BACKOFF_MS" envDefault:"500"`
	}

	Run struct {
		// Размер пула воркеров для единиц сверки
		Workers int `env:"RUN_WORKERS" envDefault:"10"`
		// Максимальная длина диапазона дат одного запуска
		MaxDateRangeDays int `env:"RUN_MAX_DATE_RANGE_DAYS" envDefault:"31"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"schedule_reconciler:schedule_reconciler"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMQ struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		URL     string `env:"RABBITMQ_URL"`
		Queue   string `env:"RABBITMQ_QUEUE" envDefault:"appointment.events"`
	}

	Cache struct {
		Enabled bool `env:"CACHE_ENABLED"`
		Size    int  `env:"CACHE_SIZE" envDefault:"1000"`
	}

	Postgres struct {
		DSN string `env:"POSTGRES_DSN"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Таймзона приложения, при ошибке остаемся в UTC
	if loc, err := time.LoadLocation(cfg.App.Timezone); err == nil {
		TimeZone = loc
	}

	// Разбор клиентов basic-авторизации
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	// Без RabbitMQ кэш инвалидировать некому, поэтому не включаем его
	if !cfg.RabbitMQ.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
