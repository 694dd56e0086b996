package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Mailjet  MailjetConfig
	AMQP     AMQPConfig
	Logger   LoggerConfig
	Jobs     JobsConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"RAM Enterprise API"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	// Inbox that receives new inquiry notifications.
	NotifyEmail string `envconfig:"APP_NOTIFY_EMAIL"`
}

type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	AllowOrigins   []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	BodyLimit      string        `envconfig:"BODY_LIMIT" default:"2M"`
}

type DatabaseConfig struct {
	Driver          string        `envconfig:"DB_DRIVER" default:"postgres"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"postgres"`
	Password        string        `envconfig:"DB_PASSWORD"`
	Name            string        `envconfig:"DB_NAME" default:"ram_enterprise"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	SQLitePath      string        `envconfig:"DB_SQLITE_PATH" default:"ram_enterprise.db"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

type JWTConfig struct {
	SecretKey string        `envconfig:"JWT_SECRET"`
	TTL       time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

type RedisConfig struct {
	Enabled       bool   `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

type MailjetConfig struct {
	MailjetBaseUrl           string `envconfig:"MAILJET_BASE_URL"`
	MailjetBasicAuthUsername string `envconfig:"MAILJET_BASIC_AUTH_USERNAME"`
	MailjetBasicAuthPassword string `envconfig:"MAILJET_BASIC_AUTH_PASSWORD"`
	MailjetSenderEmail       string `envconfig:"MAILJET_SENDER_EMAIL"`
	MailjetSenderName        string `envconfig:"MAILJET_SENDER_NAME" default:"RAM Enterprise"`
	Workers                  int    `envconfig:"MAIL_WORKERS" default:"4"`
}

type AMQPConfig struct {
	URL      string `envconfig:"AMQP_URL"`
	Exchange string `envconfig:"AMQP_EXCHANGE" default:"commerce.events"`
}

type LoggerConfig struct {
	Filename string `envconfig:"LOG_FILE"`
}

type JobsConfig struct {
	Enabled           bool `envconfig:"JOBS_ENABLED" default:"true"`
	LowStockThreshold int  `envconfig:"LOW_STOCK_THRESHOLD" default:"5"`
}

type AdminConfig struct {
	Email    string `envconfig:"ADMIN_EMAIL"`
	Password string `envconfig:"ADMIN_PASSWORD"`
	Name     string `envconfig:"ADMIN_NAME" default:"Administrator"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("missing jwt secret")
	}

	if len(c.JWT.SecretKey) < 16 {
		return errors.New("jwt secret must be at least 16 characters")
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.Password == "" {
			return errors.New("missing database password")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Admin.Email != "" && len(c.Admin.Password) < 6 {
		return errors.New("admin password must be at least 6 characters")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
