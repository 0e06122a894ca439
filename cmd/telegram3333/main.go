package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kdziekansky/telegram3333/pkg/app"
	"github.com/kdziekansky/telegram3333/pkg/db"

	"github.com/go-pg/pg/v10"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/vmkteam/embedlog"
)

const appName = "telegram3333"

var (
	flConfigPath = flag.String("config", "config.yaml", "path to configuration file")
	flVerbose    = flag.Bool("verbose", false, "enable debug output")
	flJSONLogs   = flag.Bool("json", false, "enable json log output")
	flDevel      = flag.Bool("devel", false, "enable devel mode")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig(*flConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.Server.IsDevel = cfg.Server.IsDevel || *flDevel

	sl := embedlog.NewLogger(*flVerbose, *flJSONLogs)
	ctx := context.Background()

	// postgresql
	pgdb := pg.Connect(cfg.Database)
	dbc := db.New(pgdb)
	if err := dbc.Ping(ctx); err != nil {
		exitOnError(sl, ctx, "failed to connect to postgresql", err)
	}

	// redis, conversation history lives here
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		exitOnError(sl, ctx, "failed to parse redis url", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		exitOnError(sl, ctx, "failed to connect to redis", err)
	}

	a, err := app.New(ctx, appName, sl, cfg, dbc, rdb)
	if err != nil {
		exitOnError(sl, ctx, "failed to create app", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		sl.Print(ctx, "shutting down", "app", appName)
		cancel()
		if err := a.Shutdown(5 * time.Second); err != nil {
			sl.Error(ctx, "shutdown failed", "err", err)
		}
	}()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		exitOnError(sl, ctx, "app exited", err)
	}
}

// loadConfig reads the yaml config and fills in defaults.
func loadConfig(path string) (app.Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	viper.SetDefault("Server.Host", "localhost")
	viper.SetDefault("Server.Port", 8075)
	viper.SetDefault("Database.Addr", "localhost:5432")
	viper.SetDefault("Database.User", "postgres")
	viper.SetDefault("Database.Database", "telegram3333")
	viper.SetDefault("Database.PoolSize", 10)
	viper.SetDefault("Redis.URL", "redis://localhost:6379/0")
	viper.SetDefault("Redis.HistoryTTL", "720h")
	viper.SetDefault("OpenAI.BaseURL", "https://api.openai.com/v1")

	if err := viper.ReadInConfig(); err != nil {
		return app.Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg app.Config
	cfg.Database = &pg.Options{
		Addr:     viper.GetString("Database.Addr"),
		User:     viper.GetString("Database.User"),
		Password: viper.GetString("Database.Password"),
		Database: viper.GetString("Database.Database"),
		PoolSize: viper.GetInt("Database.PoolSize"),
	}
	cfg.Server.Host = viper.GetString("Server.Host")
	cfg.Server.Port = viper.GetInt("Server.Port")
	cfg.Server.IsDevel = viper.GetBool("Server.IsDevel")
	cfg.Telegram.Token = viper.GetString("Telegram.Token")
	cfg.Telegram.Debug = viper.GetBool("Telegram.Debug")
	cfg.Redis.URL = viper.GetString("Redis.URL")
	cfg.Redis.HistoryTTL = viper.GetDuration("Redis.HistoryTTL")
	cfg.OpenAI.Token = viper.GetString("OpenAI.Token")
	cfg.OpenAI.BaseURL = viper.GetString("OpenAI.BaseURL")
	cfg.Prometheus.URL = viper.GetString("Prometheus.URL")

	if cfg.Telegram.Token == "" {
		return app.Config{}, fmt.Errorf("telegram token is required")
	}
	if cfg.OpenAI.Token == "" {
		return app.Config{}, fmt.Errorf("openai token is required")
	}

	return cfg, nil
}

func exitOnError(sl embedlog.Logger, ctx context.Context, msg string, err error) {
	sl.Error(ctx, msg, "err", err)
	os.Exit(1)
}
