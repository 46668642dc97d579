package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port       int    `env:"PORT" envDefault:"8080"`
	APIVersion string `env:"API_VERSION" envDefault:"v1"`
	Migrate    bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	// OperationTimeout bounds every service call against the store.
	OperationTimeout time.Duration `env:"SERVICE_TIMEOUT" envDefault:"3s"`

	DB        DB
	Auth      Auth
	Admin     Admin
	Mail      Mail
	Notify    Notify
	Kafka     Kafka
	RateLimit RateLimit
	Pprof     Pprof
	Jobs      Jobs
	Log       Log
}

// DB stores Postgres connection settings.
type DB struct {
	Host string `env:"POSTGRES_HOST" envDefault:"127.0.0.1"`
	Port string `env:"POSTGRES_PORT" envDefault:"5432"`
	User string `env:"POSTGRES_USER" envDefault:"postgres"`
	Pass string `env:"POSTGRES_PASSWORD" envDefault:"admin"`
	Name string `env:"POSTGRES_DB" envDefault:"sendit"`
}

// DSN returns a pgx connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Auth stores token and password hashing settings.
type Auth struct {
	Secret     string        `env:"JWT_SECRET" envDefault:"sendit-dev-secret"`
	TokenTTL   time.Duration `env:"JWT_TTL" envDefault:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
}

// Admin describes the administrator account seeded at start-up. Empty Username disables seeding.
type Admin struct {
	Username string `env:"ADMIN_USERNAME"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Mail stores SMTP settings. Empty Host disables the SMTP sink.
type Mail struct {
	Host        string        `env:"SMTP_HOST"`
	Port        int           `env:"SMTP_PORT" envDefault:"587"`
	Username    string        `env:"SMTP_USERNAME"`
	Password    string        `env:"SMTP_PASSWORD"`
	From        string        `env:"MAIL_FROM" envDefault:"no-reply@sendit.local"`
	MaxAttempts int           `env:"MAIL_MAX_ATTEMPTS" envDefault:"4"`
	BaseDelay   time.Duration `env:"MAIL_BASE_DELAY" envDefault:"200ms"`
	MaxDelay    time.Duration `env:"MAIL_MAX_DELAY" envDefault:"2s"`
}

// Notify stores the in-process notification queue settings.
type Notify struct {
	QueueSize       int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"256"`
	Workers         int           `env:"NOTIFY_WORKERS" envDefault:"2"`
	DeliveryTimeout time.Duration `env:"NOTIFY_DELIVERY_TIMEOUT" envDefault:"10s"`
	DrainTimeout    time.Duration `env:"NOTIFY_DRAIN_TIMEOUT" envDefault:"5s"`
}

// Kafka stores broker settings. Empty Brokers disables the Kafka sink and the notifier worker.
type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"parcel-events"`
	GroupID string   `env:"KAFKA_GROUP_ID" envDefault:"sendit-notifier"`
}

// Enabled reports whether Kafka is configured.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0 && strings.TrimSpace(k.Topic) != ""
}

// RateLimit stores per-client limits for the auth routes.
type RateLimit struct {
	Enabled    bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Rate       float64       `env:"RATE_LIMIT_RATE" envDefault:"5"`
	Burst      int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	TTL        time.Duration `env:"RATE_LIMIT_TTL" envDefault:"10m"`
	MaxBuckets int           `env:"RATE_LIMIT_MAX_BUCKETS" envDefault:"10000"`
	Window     time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1s"`
	RedisAddr  string        `env:"REDIS_ADDR"`
}

// Pprof stores debug server settings. Empty Addr disables it.
type Pprof struct {
	Addr string `env:"PPROF_ADDR"`
	User string `env:"PPROF_USER"`
	Pass string `env:"PPROF_PASS"`
}

// Jobs stores cron schedules.
type Jobs struct {
	StatsSchedule string `env:"STATS_SCHEDULE" envDefault:"@every 1m"`
}

// Log stores logger settings.
type Log struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Backend string `env:"LOG_BACKEND" envDefault:"slog"`
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.APIVersion, "api-version", cfg.APIVersion, "API version path segment")
	fs.BoolVar(&cfg.Migrate, "migrate", cfg.Migrate, "apply database migrations on start")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if p, err := strconv.Atoi(c.DB.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid POSTGRES_PORT: %q", c.DB.Port)
	}
	if strings.TrimSpace(c.APIVersion) == "" {
		return fmt.Errorf("api version must not be empty")
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid JWT_TTL: %s", c.Auth.TokenTTL)
	}
	if c.Admin.Username != "" && (c.Admin.Password == "" || c.Admin.Email == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required with ADMIN_USERNAME")
	}
	if c.Notify.QueueSize <= 0 || c.Notify.Workers <= 0 {
		return fmt.Errorf("notify queue size and workers must be positive")
	}
	if c.Mail.Host != "" && (c.Mail.Port <= 0 || c.Mail.Port > 65535) {
		return fmt.Errorf("invalid SMTP_PORT: %d", c.Mail.Port)
	}
	return nil
}
