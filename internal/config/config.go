package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr        string
	DatabaseURL       string
	RedisAddr         string
	DashboardCacheTTL time.Duration
}

// Load reads configuration from the environment with code defaults. RedisAddr
// is optional; without it the dashboard cache stays in-process.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("DASHBOARD_CACHE_TTL", time.Minute)

	return Config{
		ListenAddr:        v.GetString("LISTEN_ADDR"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		DashboardCacheTTL: v.GetDuration("DASHBOARD_CACHE_TTL"),
	}
}
