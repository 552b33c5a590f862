package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/lumishop/shopadmin/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Auth       sharedConfig.AuthConfig       `mapstructure:"auth"`
	OAuth      sharedConfig.OAuthConfig      `mapstructure:"oauth"`
	Email      sharedConfig.EmailConfig      `mapstructure:"email"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	CSRF       sharedConfig.CSRFConfig       `mapstructure:"csrf"`
	APIToken   sharedConfig.APITokenConfig   `mapstructure:"api_token"`
	Security   sharedConfig.SecurityConfig   `mapstructure:"security"`
	Report     sharedConfig.ReportConfig     `mapstructure:"report"`
	Permission sharedConfig.PermissionConfig `mapstructure:"permission"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// DefaultContentSecurityPolicy is sent when security.content_security_policy is not configured.
const DefaultContentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https:; font-src 'self' data:; connect-src 'self'; frame-ancestors 'self'; " +
	"base-uri 'self'; form-action 'self'"

// Load loads configuration from an optional .env file, the config file and environment variables.
// configPath, when non-empty, points at an explicit config file.
func Load(env string, configPath ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	if len(configPath) > 0 && configPath[0] != "" {
		v.SetConfigFile(configPath[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("SHOPADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Security.ContentSecurityPolicy == "" {
		config.Security.ContentSecurityPolicy = DefaultContentSecurityPolicy
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.timezone", "Asia/Ho_Chi_Minh")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "shopadmin_dev")
	v.SetDefault("database.path", "shopadmin.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.password.bcrypt_cost", 12)
	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.access_exp_minutes", 120)
	v.SetDefault("auth.cookie.path", "/")
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")
	v.SetDefault("auth.login_per_minute", 10)

	v.SetDefault("csrf.token_ttl_minutes", 120)
	v.SetDefault("csrf.session_ttl_hours", 24)
	v.SetDefault("csrf.endpoint_per_minute", 60)
	v.SetDefault("csrf.endpoint_burst", 10)

	v.SetDefault("api_token.default_rate_limit", 60)
	v.SetDefault("api_token.max_rate_limit", 1000)
	v.SetDefault("api_token.usage_queue_size", 1024)

	v.SetDefault("security.max_body_bytes", 2<<20)
	v.SetDefault("security.rich_fields", []string{"content", "description", "body"})

	v.SetDefault("report.timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("report.locale", "vi")
	v.SetDefault("report.currency", "VND")
	v.SetDefault("report.daily_mail_hour", 7)

	v.SetDefault("oauth.google.redirect_url", "http://localhost:8080/api/auth/oauth/google/callback")

	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.from_address", "noreply@shopadmin.local")
	v.SetDefault("email.from_name", "Shop Admin")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("permission.seed_file", "./configs/permissions.yaml")
}
