package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jeevanra/jeevanra/pkg/catalog"
	"github.com/jeevanra/jeevanra/pkg/logging"
	"github.com/jeevanra/jeevanra/pkg/store"
	"github.com/jeevanra/jeevanra/pkg/version"
	"github.com/jeevanra/jeevanra/pkg/web"
)

func main() {
	cfg := web.DefaultConfig()
	// Flags override the environment, which overrides the defaults.
	envErr := web.LoadEnv(&cfg, ".env")
	logDefaults := logging.FromEnv()

	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP bind address for pages")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "HTTP bind address for Prometheus /metrics (empty to disable)")
	flag.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Jeevanra REST API root")
	flag.StringVar(&cfg.WeatherURL, "weather-url", cfg.WeatherURL, "Weather API root")
	flag.StringVar(&cfg.DBDSN, "db", cfg.DBDSN, "Session store: SQLite file, :memory: or postgres:// URL")
	flag.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "Redis URL relaying toasts between instances (empty for a single instance)")
	flag.BoolVar(&cfg.CookieSecure, "cookie-secure", cfg.CookieSecure, "Mark the session cookie Secure")
	flag.StringVar(&cfg.ActivitiesFile, "activities-file", cfg.ActivitiesFile, "YAML activity catalog replacing the built-in one")
	flag.BoolVar(&cfg.ExportActivities, "export-activities", false, "Print the activity catalog as YAML and exit")

	logLevel := flag.String("log-level", logDefaults.Level, "Log level: "+logging.LevelNames())
	logFormat := flag.String("log-format", logDefaults.Format, "Log format: text or json")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Full())
		return
	}

	if err := logging.Setup(logging.Options{
		Level:  *logLevel,
		Format: *logFormat,
		Output: os.Stdout,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}
	if envErr != nil {
		slog.Error("load environment", "err", envErr)
		os.Exit(1)
	}

	cat := catalog.Default()
	if cfg.ActivitiesFile != "" {
		loaded, err := catalog.Load(cfg.ActivitiesFile)
		if err != nil {
			slog.Error("load activity catalog", "path", cfg.ActivitiesFile, "err", err)
			os.Exit(1)
		}
		cat = loaded
	}

	if cfg.ExportActivities {
		data, err := cat.YAML()
		if err != nil {
			slog.Error("export activities", "err", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.Open(ctx, cfg.DBDSN)
	cancel()
	if err != nil {
		slog.Error("open session store", "dsn", cfg.DBDSN, "err", err)
		os.Exit(1)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = st.Close()
			slog.Error("parse redis url", "err", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
	}

	srv, err := web.New(cfg, web.Dependencies{Store: st, Catalog: cat, Redis: rdb})
	if err != nil {
		_ = st.Close()
		slog.Error("create server", "err", err)
		os.Exit(1)
	}
	slog.Info("starting jeevanra", "version", version.String(), "api", cfg.APIURL)
	if err := srv.Run(); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
