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
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
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

// RazorpayConfig holds gateway credentials and client tuning.
type RazorpayConfig struct {
	KeyID         string `mapstructure:"key_id"`
	KeySecret     string `mapstructure:"key_secret"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	BaseURL       string `mapstructure:"base_url"`
	TimeoutSecs   int    `mapstructure:"timeout_secs"`

	// Circuit breaker around the payments API.
	BreakerFailureThreshold uint32 `mapstructure:"breaker_failure_threshold"`
	BreakerOpenSecs         int    `mapstructure:"breaker_open_secs"`
}

// GetWebhookSecret falls back to the key secret when no dedicated webhook secret is configured.
func (r *RazorpayConfig) GetWebhookSecret() string {
	if r.WebhookSecret != "" {
		return r.WebhookSecret
	}
	return r.KeySecret
}

func (r *RazorpayConfig) GetTimeout() time.Duration {
	if r.TimeoutSecs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(r.TimeoutSecs) * time.Second
}

// ReconcilerConfig controls the periodic pending-payment sweep.
type ReconcilerConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
	LockTTLSecs     int  `mapstructure:"lock_ttl_secs"`
}

func (r *ReconcilerConfig) GetInterval() time.Duration {
	if r.IntervalMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(r.IntervalMinutes) * time.Minute
}

func (r *ReconcilerConfig) GetLockTTL() time.Duration {
	if r.LockTTLSecs <= 0 {
		return 4 * time.Minute
	}
	return time.Duration(r.LockTTLSecs) * time.Second
}
