package web

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds front-end configuration.
type Config struct {
	ListenAddr     string // HTTP bind address for pages (e.g. ":3000")
	MetricsAddr    string // HTTP bind address for /metrics (empty = disabled)
	APIURL         string // remote REST API root
	WeatherURL     string // weather API root
	WeatherKey     string // weather API key (empty = weather panel shows an error)
	DBDSN          string // session store: SQLite path, ":memory:" or postgres:// URL
	SessionSecret  string // at least 32 bytes; random per run when empty
	CookieSecure   bool   // mark the session cookie Secure (HTTPS deployments)
	RedisURL       string // toast relay across instances (empty = single instance)
	ActivitiesFile string // YAML activity catalog replacing the embedded one

	// CLI-only actions (run and exit)
	ExportActivities bool // print the activity catalog as YAML and exit
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:  ":3000",
		MetricsAddr: ":9602",
		APIURL:      "http://localhost:8080",
		WeatherURL:  "https://api.weatherapi.com",
		DBDSN:       "jeevanra.db",
	}
}

// Environment variables read by LoadEnv.
const (
	EnvAPIURL         = "API_URL"
	EnvPublicAPIURL   = "NEXT_PUBLIC_API_URL"
	EnvWeatherKey     = "WEATHER_API_KEY"
	EnvPublicWeather  = "NEXT_PUBLIC_WEATHER_API_KEY"
	EnvListen         = "JEEVANRA_LISTEN"
	EnvMetrics        = "JEEVANRA_METRICS"
	EnvDB             = "JEEVANRA_DB"
	EnvSessionSecret  = "JEEVANRA_SESSION_SECRET"
	EnvCookieSecure   = "JEEVANRA_COOKIE_SECURE"
	EnvRedisURL       = "JEEVANRA_REDIS_URL"
	EnvActivitiesFile = "JEEVANRA_ACTIVITIES_FILE"
	EnvWeatherURL     = "JEEVANRA_WEATHER_URL"
)

// LoadEnv loads envFile (if present) into the process environment, then
// overlays the recognized variables onto cfg. A missing file is not an
// error. NEXT_PUBLIC_API_URL takes precedence over API_URL.
func LoadEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("web: load %s: %w", envFile, err)
			}
		} else {
			slog.Debug("loaded env file", "path", envFile)
		}
	}

	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}
	str(&cfg.APIURL, EnvPublicAPIURL, EnvAPIURL)
	str(&cfg.WeatherKey, EnvWeatherKey, EnvPublicWeather)
	str(&cfg.WeatherURL, EnvWeatherURL)
	str(&cfg.ListenAddr, EnvListen)
	str(&cfg.MetricsAddr, EnvMetrics)
	str(&cfg.DBDSN, EnvDB)
	str(&cfg.SessionSecret, EnvSessionSecret)
	str(&cfg.RedisURL, EnvRedisURL)
	str(&cfg.ActivitiesFile, EnvActivitiesFile)

	if v, ok := os.LookupEnv(EnvCookieSecure); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("web: %s: %w", EnvCookieSecure, err)
		}
		cfg.CookieSecure = b
	}
	return nil
}
