package app

import (
	"context"
	"time"

	"github.com/kdziekansky/telegram3333/pkg/ai"
	"github.com/kdziekansky/telegram3333/pkg/credits"
	"github.com/kdziekansky/telegram3333/pkg/db"
	"github.com/kdziekansky/telegram3333/pkg/history"
	"github.com/kdziekansky/telegram3333/pkg/services"
	"github.com/kdziekansky/telegram3333/pkg/telegram"
	"github.com/kdziekansky/telegram3333/pkg/whisper"

	"github.com/go-pg/pg/v10"
	monitor "github.com/hypnoglow/go-pg-monitor"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/vmkteam/appkit"
	"github.com/vmkteam/embedlog"
)

type Config struct {
	Database *pg.Options
	Server   struct {
		Host    string
		Port    int
		IsDevel bool
	}
	Telegram struct {
		Token string
		Debug bool
	}
	Redis struct {
		URL        string
		HistoryTTL time.Duration
	}
	OpenAI struct {
		Token   string
		BaseURL string
	}
	Prometheus struct {
		URL string
	}
}

type App struct {
	embedlog.Logger
	appName string
	cfg     Config
	db      db.DB
	mon     *monitor.Monitor
	echo    *echo.Echo
	tgBot   *telegram.Bot
}

func New(ctx context.Context, appName string, sl embedlog.Logger, cfg Config, dbc db.DB, rdb *redis.Client) (*App, error) {
	a := &App{
		appName: appName,
		cfg:     cfg,
		db:      dbc,
		echo:    appkit.NewEcho(),
		Logger:  sl,
	}

	if cfg.Telegram.Token != "" {
		users := db.NewUsersRepo(dbc)

		var transcriber services.Transcriber = whisper.New()

		tgBot, err := telegram.New(telegram.Config{
			Token: cfg.Telegram.Token,
			Debug: cfg.Telegram.Debug,
		}, telegram.Deps{
			Users:       users,
			Credits:     credits.NewManager(users, sl),
			History:     history.NewStore(rdb, cfg.Redis.HistoryTTL),
			Assistant:   ai.NewClient(cfg.OpenAI.Token, cfg.OpenAI.BaseURL),
			Transcriber: transcriber,
		}, sl)
		if err != nil {
			return nil, err
		}
		a.tgBot = tgBot
	}

	return a, nil
}

// Run is a function that runs application.
func (a *App) Run(ctx context.Context) error {
	a.registerMetrics()
	a.registerHandlers()
	a.registerDebugHandlers()
	a.registerMetadata()

	if a.tgBot != nil {
		go func() {
			if err := a.tgBot.Start(ctx); err != nil {
				a.Error(ctx, "telegram bot error", "err", err)
			}
		}()
	}

	a.reportLifetimeMetrics(ctx)

	return a.runHTTPServer(ctx, a.cfg.Server.Host, a.cfg.Server.Port)
}

// reportLifetimeMetrics logs historical bot totals from Prometheus at
// startup. Counters themselves restart at zero, rate() handles that.
func (a *App) reportLifetimeMetrics(ctx context.Context) {
	if a.cfg.Prometheus.URL == "" {
		return
	}

	pc, err := services.NewPrometheusClient(a.cfg.Prometheus.URL, a.Logger)
	if err != nil {
		a.Error(ctx, "failed to create prometheus client", "err", err)
		return
	}
	if err := pc.CheckHealth(ctx); err != nil {
		a.Error(ctx, "prometheus is unreachable", "url", a.cfg.Prometheus.URL, "err", err)
		return
	}

	snap, err := pc.RestoreMetrics(ctx)
	if err != nil {
		a.Error(ctx, "failed to query lifetime metrics", "err", err)
		return
	}
	a.Print(ctx, "lifetime totals",
		"commands", sum(snap.CommandsProcessed),
		"messages", sum(snap.MessagesProcessed),
		"callbacks", sum(snap.CallbacksProcessed),
		"operations", sum(snap.OperationsExecuted),
		"errors", sum(snap.ErrorsTotal),
	)
}

func sum(m map[string]float64) float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// Shutdown is a function that gracefully stops HTTP server.
func (a *App) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.tgBot != nil {
		a.tgBot.Stop(ctx)
	}

	a.mon.Close()

	return a.echo.Shutdown(ctx)
}

// registerMetadata is a function that registers meta info from service.
func (a *App) registerMetadata() {
	services := []appkit.ServiceMetadata{}
	if a.tgBot != nil {
		// the bot polls in its own goroutine
		services = append(services, appkit.NewServiceMetadata("telegram-bot", appkit.MetadataServiceTypeAsync))
	}

	opts := appkit.MetadataOpts{
		HasPublicAPI:  false,
		HasPrivateAPI: false,
		DBs: []appkit.DBMetadata{
			appkit.NewDBMetadata(a.cfg.Database.Database, a.cfg.Database.PoolSize, false),
		},
		Services: services,
	}

	md := appkit.NewMetadataManager(opts)
	md.RegisterMetrics()

	a.echo.GET("/debug/metadata", md.Handler)
}
