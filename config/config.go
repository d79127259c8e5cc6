package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Server   ServerConfig   `validate:"required"`
	Database DatabaseConfig `validate:"required"`
	JWT      JWTConfig      `validate:"required"`
	SMTP     SMTPConfig
	Redis    RedisConfig
	Logging  LoggingConfig `validate:"required"`
}

type ServerConfig struct {
	Port           string   `validate:"required"`
	GinMode        string   `mapstructure:"gin_mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst" validate:"gte=0"`
}

type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required"`
	Name     string `validate:"required"`
	Username string `validate:"required"`
	Password string
	DebugSQL bool `mapstructure:"debug_sql"`
}

type JWTConfig struct {
	Secret      string `validate:"required"`
	Issuer      string
	ExpireHours int `mapstructure:"expire_hours" validate:"gt=0"`
}

type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool `mapstructure:"skip_tls_verify"`
}

type RedisConfig struct {
	Enabled  bool
	Address  string `validate:"required_if=Enabled true"`
	Password string
	DB       int
}

type LoggingConfig struct {
	Level string `validate:"required,oneof=debug info warn error"`
	File  string
}

// DSN builds the MySQL data source name.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

// IsRelease reports whether gin should run in release mode.
func (c ServerConfig) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}

// Enabled reports whether enough SMTP settings exist to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// NewConfig loads .env (when present), then reads PROCURIFY_* environment
// variables on top of the defaults, e.g. PROCURIFY_DATABASE_HOST.
func NewConfig() (*Configuration, error) {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PROCURIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.Server.AllowedOrigins = splitList(strings.Join(cfg.Server.AllowedOrigins, ","))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Every key needs a default so AutomaticEnv picks it up during Unmarshal.
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("server.allowed_origins", "http://localhost:5173")
	v.SetDefault("server.rate_limit_rps", 20)
	v.SetDefault("server.rate_limit_burst", 40)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.name", "procurify")
	v.SetDefault("database.username", "procurify")
	v.SetDefault("database.password", "")
	v.SetDefault("database.debug_sql", false)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "procurify")
	v.SetDefault("jwt.expire_hours", 24)

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.skip_tls_verify", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", LogFilePath())
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
