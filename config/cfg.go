package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jekabolt/salon-analytics/internal/analytics"
	httpapi "github.com/jekabolt/salon-analytics/internal/api/http"
	"github.com/jekabolt/salon-analytics/internal/cache"
	"github.com/jekabolt/salon-analytics/internal/dashboard"
	"github.com/jekabolt/salon-analytics/internal/store"
	"github.com/jekabolt/salon-analytics/log"
	"github.com/spf13/viper"
)

const (
	SourceFile  = "file"
	SourceMySQL = "mysql"
	SourceBunt  = "bunt"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// SourceConfig selects where records are read from.
type SourceConfig struct {
	Kind string `mapstructure:"kind"`
	// Path is the JSON snapshot read by the file source.
	Path string `mapstructure:"path"`
}

// CacheConfig selects the dashboard result cache.
type CacheConfig struct {
	Kind   string             `mapstructure:"kind"`
	Memory cache.MemoryConfig `mapstructure:"memory"`
	Redis  cache.RedisConfig  `mapstructure:"redis"`
}

// Config represents the global configuration for the service.
type Config struct {
	Logger    log.Config       `mapstructure:"logger"`
	HTTP      httpapi.Config   `mapstructure:"http"`
	Source    SourceConfig     `mapstructure:"source"`
	DB        store.Config     `mapstructure:"mysql"`
	Bunt      store.BuntConfig `mapstructure:"bunt"`
	Cache     CacheConfig      `mapstructure:"cache"`
	Dashboard dashboard.Config `mapstructure:"dashboard"`
	Analytics analytics.Config `mapstructure:"analytics"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
// Nested keys use double underscore, e.g. SOURCE__PATH for source.path.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))
	bindEnvVars(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/config/salon-analytics")
		v.AddConfigPath("/etc/salon-analytics")
		// Try to read config, but don't fail if it doesn't exist
		_ = v.ReadInConfig()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects unknown source and cache kinds.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceFile:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for the file source")
		}
	case SourceMySQL:
		if c.DB.DSN == "" {
			return fmt.Errorf("mysql.dsn is required for the mysql source")
		}
	case SourceBunt:
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	switch c.Cache.Kind {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("unknown cache kind %q", c.Cache.Kind)
	}
	if _, ok := analytics.ParseWeekday(c.Analytics.WeekStart); !ok {
		return fmt.Errorf("unknown analytics.week_start %q", c.Analytics.WeekStart)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", 0)
	v.SetDefault("logger.format", "json")

	v.SetDefault("http.port", "8081")
	v.SetDefault("http.address", "0.0.0.0")
	v.SetDefault("http.request_timeout", "60s")
	v.SetDefault("http.rate_limit.window", "1m")
	v.SetDefault("http.rate_limit.max", 120)

	v.SetDefault("source.kind", SourceFile)
	v.SetDefault("source.path", "data/dataset.json")
	v.SetDefault("bunt.path", ":memory:")
	v.SetDefault("mysql.automigrate", true)

	v.SetDefault("cache.kind", CacheMemory)
	v.SetDefault("cache.memory.ttl", "5m")
	v.SetDefault("cache.memory.max_entries", 256)
	v.SetDefault("cache.redis.ttl", "5m")

	v.SetDefault("dashboard.compute_timeout", "30s")

	def := analytics.DefaultConfig()
	v.SetDefault("analytics.weeks_in_range", def.WeeksInRange)
	v.SetDefault("analytics.derive_weeks_in_range", def.DeriveWeeksInRange)
	v.SetDefault("analytics.assumed_packages_sold", def.AssumedPackagesSold)
	v.SetDefault("analytics.service_revenue", def.ServiceRevenue)
	v.SetDefault("analytics.week_start", def.WeekStart)
	v.SetDefault("analytics.funnel_mode", string(def.FunnelMode))
	v.SetDefault("analytics.top_clients", def.TopClients)
	v.SetDefault("analytics.lapsed_clients", def.LapsedClients)
	v.SetDefault("analytics.max_range_days", def.MaxRangeDays)
	v.SetDefault("analytics.timezone", def.Timezone)
}

// bindEnvVars binds environment variables to config keys
// This allows using both nested keys (MYSQL__DSN) and flat keys (MYSQL_DSN)
func bindEnvVars(v *viper.Viper) {
	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.add_source", "LOG_ADD_SOURCE")
	v.BindEnv("logger.format", "LOG_FORMAT")

	// HTTP
	v.BindEnv("http.port", "HTTP_PORT")
	v.BindEnv("http.address", "HTTP_ADDRESS")
	v.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")

	// Source
	v.BindEnv("source.kind", "SOURCE_KIND")
	v.BindEnv("source.path", "SOURCE_PATH")
	v.BindEnv("bunt.path", "BUNT_PATH")

	// MySQL
	v.BindEnv("mysql.dsn", "MYSQL_DSN")
	v.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	v.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	v.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")

	// Cache
	v.BindEnv("cache.kind", "CACHE_KIND")
	v.BindEnv("cache.redis.addr", "REDIS_ADDR")
	v.BindEnv("cache.redis.password", "REDIS_PASSWORD")
	v.BindEnv("cache.redis.db", "REDIS_DB")

	// Analytics
	v.BindEnv("analytics.timezone", "ANALYTICS_TIMEZONE")
	v.BindEnv("analytics.week_start", "ANALYTICS_WEEK_START")
	v.BindEnv("analytics.funnel_mode", "ANALYTICS_FUNNEL_MODE")
	v.BindEnv("analytics.max_range_days", "ANALYTICS_MAX_RANGE_DAYS")
}
