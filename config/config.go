package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const defaultWelcomeImage = "https://images.unsplash.com/photo-1512970648279-ff3398568f77?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NTY2Nzd8MHwxfHNlYXJjaHwyfHxtb3NxdWV8ZW58MHx8fHwxNzUzNTMxNTc2fDA&ixlib=rb-4.1.0&q=85"

type Config struct {
	ServiceName string
	LoggerLevel string

	HTTPPort           int
	CORSAllowedOrigins string

	StorageDriver string
	StoreTimeout  time.Duration

	MongoURL string
	DBName   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string

	TelegramBotToken string
	WebAppURL        string
	ChannelURL       string
	AdminURL         string
	WelcomeImageURL  string
	LocalesFile      string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "quranbot"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))

	cfg.HTTPPort = cast.ToInt(getOrReturnDefault("HTTP_PORT", 8001))
	cfg.CORSAllowedOrigins = cast.ToString(getOrReturnDefault("CORS_ALLOWED_ORIGINS", "*"))

	cfg.StorageDriver = strings.ToLower(cast.ToString(getOrReturnDefault("STORAGE_DRIVER", DriverMongo)))
	cfg.StoreTimeout = parseDuration(cast.ToString(getOrReturnDefault("STORE_TIMEOUT", "5s")))

	cfg.MongoURL = cast.ToString(getOrReturnDefault("MONGO_URL", ""))
	cfg.DBName = cast.ToString(getOrReturnDefault("DB_NAME", ""))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "1234"))

	cfg.TelegramBotToken = cast.ToString(getOrReturnDefault("TELEGRAM_BOT_TOKEN", ""))
	cfg.WebAppURL = cast.ToString(getOrReturnDefault("WEB_APP_URL", getOrReturnDefault("REACT_APP_BACKEND_URL", "")))
	cfg.ChannelURL = cast.ToString(getOrReturnDefault("CHANNEL_URL", "https://t.me/channelname"))
	cfg.AdminURL = cast.ToString(getOrReturnDefault("ADMIN_URL", "https://t.me/adminusername"))
	cfg.WelcomeImageURL = cast.ToString(getOrReturnDefault("WELCOME_IMAGE_URL", defaultWelcomeImage))
	cfg.LocalesFile = cast.ToString(getOrReturnDefault("LOCALES_FILE", ""))

	return cfg
}

// Validate reports every required key that is missing for the selected
// storage driver in a single error.
func (c Config) Validate() error {
	var missing []string

	switch c.StorageDriver {
	case DriverMongo:
		if c.MongoURL == "" {
			missing = append(missing, "MONGO_URL")
		}
		if c.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
	case DriverPostgres:
		if c.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.TelegramBotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.WebAppURL == "" {
		missing = append(missing, "WEB_APP_URL")
	}
	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be a positive duration with a unit, e.g. 5s")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// PostgresURL builds the connection string used by both pgx and migrate.
func (c Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.DBName,
	)
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// parseDuration requires a unit. A bare number yields zero, which Validate
// rejects.
func parseDuration(raw string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}
