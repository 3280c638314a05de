package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	OTP    OTPConfig
	Token  TokenConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	SMTP   SMTPConfig
	Twilio TwilioConfig
}

// OTPConfig tunes code issuance. Tests construct this struct directly with
// short TTLs instead of going through the environment.
type OTPConfig struct {
	Length          int           `env:"OTP_LENGTH,           default=6"`
	TTL             time.Duration `env:"OTP_TTL,              default=5m"`
	ResendCooldown  time.Duration `env:"OTP_RESEND_COOLDOWN,  default=60s"`
	DispatchTimeout time.Duration `env:"OTP_DISPATCH_TIMEOUT, default=10s"`
	SweepInterval   time.Duration `env:"OTP_SWEEP_INTERVAL,   default=10m"`
	SweepMargin     time.Duration `env:"OTP_SWEEP_MARGIN,     default=1m"`
}

type TokenConfig struct {
	TTL time.Duration `env:"TOKEN_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=automo"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

type TwilioConfig struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	From       string `env:"TWILIO_FROM"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
