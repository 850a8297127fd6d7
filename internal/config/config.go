package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Cron      CronConfig      `mapstructure:"cron"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Stream    StreamConfig    `mapstructure:"stream"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
	LogQueries      bool          `mapstructure:"log_queries"`
}

type AuthConfig struct {
	Disabled     bool          `mapstructure:"disabled"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieDomain string        `mapstructure:"cookie_domain"`
	SSOLoginURL  string        `mapstructure:"sso_login_url"`
}

// AuditConfig points at the external audit-trail collector. Leaving base_url
// empty disables audit logging entirely.
type AuditConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CronConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	StatsRollup string `mapstructure:"stats_rollup"`
}

type DashboardConfig struct {
	MetricsWindow  time.Duration `mapstructure:"metrics_window"`
	RecentLimit    int           `mapstructure:"recent_limit"`
	RollupLookback time.Duration `mapstructure:"rollup_lookback"`
}

type StreamConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	BufferSize int  `mapstructure:"buffer_size"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.log_queries", false)
	v.SetDefault("auth.disabled", false)
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.cookie_name", "token")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.stats_rollup", "0 0 2 * * *")
	v.SetDefault("audit.timeout", "2s")
	v.SetDefault("dashboard.metrics_window", "720h")
	v.SetDefault("dashboard.recent_limit", 5)
	v.SetDefault("dashboard.rollup_lookback", "2160h")
	v.SetDefault("stream.enabled", true)
	v.SetDefault("stream.buffer_size", 16)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
