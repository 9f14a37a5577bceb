package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Email    EmailConfig
	Results  ResultsConfig
	Log      LogConfig
}

// ServerConfig представляет конфигурацию HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int      `mapstructure:"read_timeout"`
	WriteTimeout int      `mapstructure:"write_timeout"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

// DatabaseConfig представляет конфигурацию базы данных
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит настройки Redis. Redis необязателен:
// без адреса ограничение частоты запросов отключается.
type RedisConfig struct {
	// Mode определяет режим работы Redis: "single", "sentinel", "cluster".
	Mode string `mapstructure:"mode"`

	// Addrs используется для sentinel и cluster.
	Addrs []string `mapstructure:"addrs"`

	// Addr используется для single режима.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName используется только для sentinel.
	MasterName string `mapstructure:"master_name"`
}

// Enabled сообщает, задан ли хотя бы один адрес Redis
func (r RedisConfig) Enabled() bool {
	return r.Addr != "" || len(r.Addrs) > 0
}

// JWTConfig представляет конфигурацию JWT
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	// ExpirationHrs - время жизни токена в часах, 0 - бессрочные токены
	ExpirationHrs int    `mapstructure:"expiration_hrs"`
	Issuer        string `mapstructure:"issuer"`
}

// AuthConfig содержит настройки доступа
type AuthConfig struct {
	RestrictListings bool            `mapstructure:"restrict_listings"`
	AdminUserIDs     []string        `mapstructure:"admin_user_ids"`
	RateLimit        RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig - лимит запросов к signup/login на IP
type RateLimitConfig struct {
	MaxRequests int `mapstructure:"max_requests"`
	WindowSec   int `mapstructure:"window_sec"`
}

// EmailConfig - отправка приветственных писем через Resend
type EmailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// Enabled сообщает, настроена ли отправка писем
func (e EmailConfig) Enabled() bool {
	return e.ResendAPIKey != "" && e.From != ""
}

type ResultsConfig struct {
	RecentLimit int `mapstructure:"recent_limit"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// PostgresConnectionString возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL возвращает DSN в виде URL для golang-migrate
func (d *DatabaseConfig) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Load загружает конфигурацию из файла configPath и переменных окружения.
// Отсутствующий файл не является ошибкой: значения берутся из окружения и умолчаний.
func Load(configPath string) (*Config, error) {
	cfg, err := read(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase загружает только настройки БД, для утилит без HTTP-сервера
func LoadDatabase(configPath string) (*DatabaseConfig, error) {
	cfg, err := read(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Database.validate(); err != nil {
		return nil, err
	}
	return &cfg.Database, nil
}

func read(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	setDefaults(vip)

	// Явно привязываем переменные окружения к ключам конфигурации
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.cors_origins", "SERVER_CORS_ORIGINS")

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expiration_hrs", "JWT_EXPIRATION_HRS")
	vip.BindEnv("jwt.issuer", "JWT_ISSUER")

	vip.BindEnv("auth.restrict_listings", "AUTH_RESTRICT_LISTINGS")
	vip.BindEnv("auth.admin_user_ids", "AUTH_ADMIN_USER_IDS")
	vip.BindEnv("auth.rate_limit.max_requests", "AUTH_RATE_LIMIT_MAX_REQUESTS")
	vip.BindEnv("auth.rate_limit.window_sec", "AUTH_RATE_LIMIT_WINDOW_SEC")

	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	vip.BindEnv("results.recent_limit", "RESULTS_RECENT_LIMIT")

	vip.BindEnv("log.level", "LOG_LEVEL")
	vip.BindEnv("log.development", "LOG_DEVELOPMENT")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil && !isMissingFile(err) {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Списки из окружения приходят одной строкой через запятую
	cfg.Redis.Addrs = splitList(cfg.Redis.Addrs)
	cfg.Auth.AdminUserIDs = splitList(cfg.Auth.AdminUserIDs)
	cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins)

	return &cfg, nil
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 15)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("jwt.expiration_hrs", 0)
	vip.SetDefault("jwt.issuer", "nback-api")
	vip.SetDefault("auth.rate_limit.max_requests", 5)
	vip.SetDefault("auth.rate_limit.window_sec", 60)
	vip.SetDefault("results.recent_limit", 5)
	vip.SetDefault("log.level", "info")
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required in config (check JWT_SECRET env var)")
	}
	if c.JWT.ExpirationHrs < 0 {
		return fmt.Errorf("jwt expiration_hrs must not be negative")
	}
	if err := c.Database.validate(); err != nil {
		return err
	}
	if c.Results.RecentLimit <= 0 {
		return fmt.Errorf("results recent_limit must be positive")
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.Host == "" || d.DBName == "" || d.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	return nil
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}

// splitList разбивает элементы вида "a,b" и убирает пустые значения
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
