package config // package config loads application configuration from environment variables

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration values. It is built once in main
// and handed to constructors; nothing reads the environment after that.
type Config struct {
	App         AppConfig
	DB          DBConfig
	Auth        AuthConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	Spoonacular SpoonacularConfig
	Metrics     MetricsConfig
}

type AppConfig struct {
	Env          string `envconfig:"APP_ENV" default:"dev"`
	Port         string `envconfig:"APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"json"`
	ClientOrigin string `envconfig:"CLIENT_URL" default:"http://localhost:5173"`
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "prod") || strings.EqualFold(a.Env, "production")
}

// DBConfig accepts either a full DSN or the discrete DB_* parts.
type DBConfig struct {
	DSN string `envconfig:"DB_DSN"`

	User string `envconfig:"DB_USER"`
	Pass string `envconfig:"DB_PASS"`
	Host string `envconfig:"DB_HOST" default:"127.0.0.1"`
	Port string `envconfig:"DB_PORT" default:"3306"`
	Name string `envconfig:"DB_NAME"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

type AuthConfig struct {
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	BcryptCost   int    `envconfig:"BCRYPT_COST" default:"10"`
	CookieName   string `envconfig:"AUTH_COOKIE_NAME" default:"token"`
	CookieSecure bool   `envconfig:"AUTH_COOKIE_SECURE" default:"false"`
}

type SpoonacularConfig struct {
	APIKey  string        `envconfig:"SPOONACULAR_API_KEY"`
	BaseURL string        `envconfig:"SPOONACULAR_BASE_URL" default:"https://api.spoonacular.com"`
	Results int           `envconfig:"SPOONACULAR_RESULTS" default:"6"`
	Timeout time.Duration `envconfig:"SPOONACULAR_TIMEOUT" default:"10s"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"METRICS_PATH" default:"/metrics"`
}

// Load decodes the environment into a Config. Callers load any .env file
// beforehand.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if len(cfg.Auth.JWTSecret) < 16 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.Auth.BcryptCost)
	}
	cfg.RateLimit.normalize()
	return &cfg, nil
}

// ensureDSN builds the DSN from the discrete parts when none was given.
// parseTime=true maps DATETIME to time.Time and loc=UTC keeps times consistent.
func (d *DBConfig) ensureDSN() error {
	if strings.TrimSpace(d.DSN) != "" {
		return nil
	}
	if d.User == "" || d.Name == "" {
		return fmt.Errorf("either DB_DSN or DB_USER and DB_NAME are required")
	}
	mc := mysql.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Pass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(d.Host, d.Port)
	mc.DBName = d.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	d.DSN = mc.FormatDSN()
	return nil
}
