// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	AutoPay    `yaml:"autopay"`
	Flows      `yaml:"flows"`
	Telemetry  `yaml:"telemetry"`
	CORS       `yaml:"cors"`
	RateLimit  `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// AutoPay задаёт поведение симулированного платёжного шлюза и расписания.
type AutoPay struct {
	EnableLatency   time.Duration `yaml:"enable_latency" env-default:"1500ms"`
	DisableLatency  time.Duration `yaml:"disable_latency" env-default:"800ms"`
	PauseLatency    time.Duration `yaml:"pause_latency" env-default:"800ms"`
	ResumeLatency   time.Duration `yaml:"resume_latency" env-default:"1s"`
	FailureRate     float64       `yaml:"failure_rate" env:"AUTOPAY_FAILURE_RATE" env-default:"0.1"`
	NextPaymentDate string        `yaml:"next_payment_date" env-default:"31 Nov 2025"`
	// BillingDay > 0 включает помесячное расписание вместо фиксированной даты.
	BillingDay int `yaml:"billing_day" env-default:"0"`
}

// Flows задаёт задержки диалогов и баннера.
type Flows struct {
	AuthDelay      time.Duration `yaml:"auth_delay" env-default:"2s"`
	AutoCloseDelay time.Duration `yaml:"auto_close_delay" env-default:"2s"`
	BannerWindow   time.Duration `yaml:"banner_window" env-default:"5s"`
}

// Telemetry структура для настройки приемников событий
type Telemetry struct {
	Sinks            []string      `yaml:"sinks" env-default:"log,prometheus"`
	RabbitMQURL      string        `yaml:"rabbitmq_url" env:"RABBITMQ_URL"`
	Exchange         string        `yaml:"exchange" env-default:"telemetry"`
	RoutingKey       string        `yaml:"routing_key" env-default:"autopay"`
	ConnectRetries   int           `yaml:"connect_retries" env-default:"5"`
	ConnectRetryWait time.Duration `yaml:"connect_retry_wait" env-default:"2s"`
}

// CORS структура для настройки доступа фронтенда
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env-default:"http://localhost:3000"`
}

// RateLimit задаёт лимит на изменяющие запросы.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// Имена приемников телеметрии в Telemetry.Sinks.
const (
	SinkLog        = "log"
	SinkPrometheus = "prometheus"
	SinkRabbitMQ   = "rabbitmq"
)

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла, недостающие поля заполняются значениями по умолчанию.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file: %s - does not exist", op, configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.FailureRate < 0 || cfg.FailureRate > 1 {
		return nil, fmt.Errorf("%s: failure_rate must be in [0, 1], got %v", op, cfg.FailureRate)
	}
	return &cfg, nil
}

// HasSink сообщает, включен ли приемник телеметрии с именем name.
func (t Telemetry) HasSink(name string) bool {
	return slices.Contains(t.Sinks, name)
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"AutoPay:\n"+
			"  FailureRate: %v\n"+
			"  NextPaymentDate: %s\n"+
			"  BillingDay: %d\n"+
			"Flows:\n"+
			"  AuthDelay: %s\n"+
			"  AutoCloseDelay: %s\n"+
			"  BannerWindow: %s\n"+
			"Telemetry:\n"+
			"  Sinks: %v\n"+
			"  Exchange: %s\n"+
			"  RoutingKey: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.FailureRate,
		c.NextPaymentDate,
		c.BillingDay,
		c.AuthDelay,
		c.AutoCloseDelay,
		c.BannerWindow,
		c.Sinks,
		c.Exchange,
		c.RoutingKey,
	)
}
