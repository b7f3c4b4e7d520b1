package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"8080"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Blob struct {
		Driver    string `env:"DRIVER" envDefault:"redis"` // redis | postgres | sqlite | memory
		Namespace string `env:"NAMESPACE" envDefault:"kopimi-kafe-data"`
		Key       string `env:"KEY" envDefault:"database"`
	} `envPrefix:"BLOB_"`
	Database struct {
		DSN            string `env:"DSN" envDefault:"kopimi.db"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns   int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Redis struct {
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD"`
		DB             int    `env:"DB" envDefault:"0"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"`
		Queue          string `env:"QUEUE" envDefault:"notification_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Email struct {
		TemplateDir string `env:"TEMPLATE_DIR" envDefault:"./templates"`
		SMTP        struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	Admin struct {
		Password     string `env:"PASSWORD"`
		PasswordHash string `env:"PASSWORD_HASH"`
		JWTSecret    string `env:"JWT_SECRET"`
	} `envPrefix:"ADMIN_"`
	Member struct {
		Expiration int `env:"EXPIRATION" envDefault:"336"` // hours, 14 days
	} `envPrefix:"MEMBER_"`
	Shop struct {
		Timezone       string `env:"TIMEZONE" envDefault:"Local"`
		StatusInterval int    `env:"STATUS_INTERVAL" envDefault:"60"`
	} `envPrefix:"SHOP_"`
	Store struct {
		DebounceMillis int `env:"DEBOUNCE_MS" envDefault:"1000"`
	} `envPrefix:"STORE_"`
	Chat struct {
		APIKey      string  `env:"API_KEY"`
		Model       string  `env:"MODEL" envDefault:"gemini-2.5-flash"`
		Temperature float32 `env:"TEMPERATURE" envDefault:"0.3"`
	} `envPrefix:"CHAT_"`
	RateLimit struct {
		RPS   float64 `env:"RPS" envDefault:"1"`
		Burst int     `env:"BURST" envDefault:"5"`
	} `envPrefix:"RATE_LIMIT_"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only report the first error so the log stays readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Location() (*time.Location, error) {
	if c.Shop.Timezone == "" || c.Shop.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Shop.Timezone)
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Store.DebounceMillis) * time.Millisecond
}

func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Database.QueryTimeout) * time.Second
}
