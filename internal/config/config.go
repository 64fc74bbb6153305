package config

import (
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	// Timezone decides what "today" is for past-date checks.
	Timezone   string `yaml:"timezone" env:"TIMEZONE" env-default:"Europe/London"`
	HTTPServer `yaml:"http_server"`
	Redis      Redis     `yaml:"redis"`
	Auth       Auth      `yaml:"auth"`
	Invoice    Invoice   `yaml:"invoice"`
	Push       Push      `yaml:"push"`
	AMQP       AMQP      `yaml:"amqp"`
	RateLimit  RateLimit `yaml:"rate_limit"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	LockTTL  time.Duration `yaml:"lock_ttl" env-default:"10s"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	Issuer    string `yaml:"issuer" env:"JWT_ISSUER"`
}

type Invoice struct {
	// Renderer is "chrome" or "fpdf".
	Renderer      string        `yaml:"renderer" env:"INVOICE_RENDERER" env-default:"fpdf"`
	ChromePath    string        `yaml:"chrome_path" env:"CHROME_PATH"`
	TemplatePath  string        `yaml:"template_path" env:"INVOICE_TEMPLATE"`
	BlobRoot      string        `yaml:"blob_root" env:"INVOICE_BLOB_ROOT" env-default:"./data/invoices"`
	RenderTimeout time.Duration `yaml:"render_timeout" env-default:"30s"`
}

type Push struct {
	Enabled         bool          `yaml:"enabled" env:"PUSH_ENABLED" env-default:"false"`
	Subscriber      string        `yaml:"subscriber" env:"VAPID_SUBSCRIBER" env-default:"mailto:admin@example.com"`
	VAPIDPublicKey  string        `yaml:"vapid_public_key" env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string        `yaml:"vapid_private_key" env:"VAPID_PRIVATE_KEY"`
	TTL             int           `yaml:"ttl" env-default:"86400"`
	Timeout         time.Duration `yaml:"timeout" env-default:"10s"`
}

type AMQP struct {
	URL string `yaml:"url" env:"AMQP_URL"`
}

type RateLimit struct {
	Enabled        bool          `yaml:"enabled" env:"RATE_LIMIT_ENABLED" env-default:"true"`
	Capacity       int           `yaml:"capacity" env:"RATE_LIMIT_CAPACITY" env-default:"60"`
	RefillTokens   int           `yaml:"refill_tokens" env-default:"1"`
	RefillInterval time.Duration `yaml:"refill_interval" env-default:"1s"`
	TTL            time.Duration `yaml:"ttl" env-default:"10m"`
	KeyStrategy    string        `yaml:"key_strategy" env:"RATE_LIMIT_KEY_STRATEGY" env-default:"ip_user_route"`
	Prefix         string        `yaml:"prefix" env-default:"rl"`
}

func MustLoad() *Config {
	// a missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return cfg
}

// Load reads path, applies environment overrides and checks the values that
// have no safe default.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("%s: timezone: %w", op, err)
	}
	if cfg.Push.Enabled && (cfg.Push.VAPIDPublicKey == "" || cfg.Push.VAPIDPrivateKey == "") {
		return nil, fmt.Errorf("%s: push enabled without VAPID keys", op)
	}
	if cfg.RateLimit.Capacity < 1 {
		cfg.RateLimit.Capacity = 1
	}
	if cfg.RateLimit.RefillTokens < 1 {
		cfg.RateLimit.RefillTokens = 1
	}
	if cfg.RateLimit.RefillInterval <= 0 {
		cfg.RateLimit.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RateLimit.RefillInterval; cfg.RateLimit.TTL < minTTL {
		cfg.RateLimit.TTL = minTTL
	}

	return &cfg, nil
}

// Location is the parsed Timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
