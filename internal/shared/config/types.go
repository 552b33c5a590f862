package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	FrontendURL    string   `mapstructure:"frontend_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GetFrontendURL returns where OAuth redirects land, defaulting to BaseURL.
func (s *ServerConfig) GetFrontendURL() string {
	if s.FrontendURL != "" {
		return s.FrontendURL
	}
	return s.BaseURL
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_unicode_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type CookieConfig struct {
	Domain   string `mapstructure:"domain"`
	Path     string `mapstructure:"path"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Cookie   CookieConfig   `mapstructure:"cookie"`
	// LoginPerMinute throttles login attempts per client IP.
	LoginPerMinute int `mapstructure:"login_per_minute"`
}

type CSRFConfig struct {
	TokenTTLMinutes   int `mapstructure:"token_ttl_minutes"`
	SessionTTLHours   int `mapstructure:"session_ttl_hours"`
	EndpointPerMinute int `mapstructure:"endpoint_per_minute"`
	EndpointBurst     int `mapstructure:"endpoint_burst"`
}

func (c *CSRFConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func (c *CSRFConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

type APITokenConfig struct {
	DefaultRateLimit int `mapstructure:"default_rate_limit"`
	MaxRateLimit     int `mapstructure:"max_rate_limit"`
	UsageQueueSize   int `mapstructure:"usage_queue_size"`
}

type SecurityConfig struct {
	ContentSecurityPolicy string   `mapstructure:"content_security_policy"`
	MaxBodyBytes          int64    `mapstructure:"max_body_bytes"`
	RichFields            []string `mapstructure:"rich_fields"`
}

type ReportConfig struct {
	Timezone       string   `mapstructure:"timezone"`
	Locale         string   `mapstructure:"locale"`
	Currency       string   `mapstructure:"currency"`
	DailyMailHour  int      `mapstructure:"daily_mail_hour"`
	MailRecipients []string `mapstructure:"mail_recipients"`
}

type GoogleOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type OAuthConfig struct {
	Google GoogleOAuthConfig `mapstructure:"google"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type PermissionConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}
