package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	NetAddr   string `env:"RUN_ADDRESS"`
	DBConnect string `env:"DATABASE_URI"`
	LogLevel  string `env:"LOG_LEVEL"`

	SessionSecret    string `env:"SESSION_SECRET"`
	ActivationSecret string `env:"ACTIVATION_SECRET"`
	ActivationURL    string `env:"ACTIVATION_URL"`

	ServiceFeeRate float64 `env:"SERVICE_FEE_RATE"`

	RedisAddr string `env:"REDIS_ADDRESS"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL"`
}

func InitConfig() (config Config) {
	flag.StringVar(&config.NetAddr, "a", "localhost:8080", "net address host:port")
	flag.StringVar(&config.DBConnect, "d", "", "database credentials in format: host=host port=port user=myuser password=xxxx dbname=mydb sslmode=disable")
	flag.StringVar(&config.LogLevel, "l", "info", "log level")
	flag.StringVar(&config.SessionSecret, "session-secret", "", "secret for signing session tokens")
	flag.StringVar(&config.ActivationSecret, "activation-secret", "", "secret for signing activation tokens")
	flag.StringVar(&config.ActivationURL, "activation-url", "http://localhost:3000/activation", "base url sent in activation emails")
	flag.Float64Var(&config.ServiceFeeRate, "fee-rate", 0.10, "service fee rate deducted from seller settlements")
	flag.StringVar(&config.RedisAddr, "redis", "", "redis address host:port, empty disables the cache")
	flag.Parse()

	if err := env.Parse(&config); err != nil {
		panic(fmt.Errorf("error while parsing config: %w", err))
	}

	return
}
