package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mnav-tracker/internal/bot"
	"mnav-tracker/internal/config"
	"mnav-tracker/internal/domain"
	"mnav-tracker/internal/handler"
	"mnav-tracker/internal/job"
	"mnav-tracker/internal/provider"
	"mnav-tracker/internal/service"
	strategy "mnav-tracker/internal/signal"
	"mnav-tracker/internal/store"
	"mnav-tracker/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "mnav-tracker/docs"
)

const version = "1.0.0"

var (
	loadEnvFunc        = godotenv.Load
	loadConfigFunc     = config.Load
	initTracerFunc     = tracing.InitTracer
	openStoreFunc      = store.Open
	newResolverFunc    = service.NewResolver
	newNavServiceFunc  = service.NewNavService
	newSchedulerFunc   = job.NewRefreshScheduler
	startSchedulerFunc = func(s *job.RefreshScheduler, ctx context.Context) error { return s.Start(ctx) }
	startTelegramBot   = bot.StartTelegramBot
	newHandlerFunc     = handler.New
	newRouterFunc      = gin.Default
	setupSignalNotify  = signal.Notify
	waitForSignalFunc  = func(quit <-chan os.Signal) { <-quit }
	startHTTPServer    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServer = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// buildProviders assembles the adapter chain in priority order. Unconfigured
// adapters stay in the chain; they fail fast and the resolver moves on.
func buildProviders(tracer trace.Tracer, cfg *config.Config, bounds domain.Bounds, coinGecko *provider.CoinGeckoClient) []provider.Provider {
	return []provider.Provider{
		provider.NewHeadlessProvider(tracer, cfg.HeadlessEnabled, cfg.TargetURL, bounds),
		provider.NewScrapingBeeProvider(tracer, cfg.ScrapingBeeAPIKey, cfg.TargetURL, bounds),
		provider.NewBrowserlessProvider(tracer, cfg.BrowserlessAPIKey, cfg.TargetURL, bounds),
		provider.NewTwitterProvider(tracer, cfg.TwitterBearerToken, bounds),
		provider.NewStockTwitsProvider(tracer, "MSTR", bounds),
		provider.NewTradingViewProvider(tracer, coinGecko, cfg.BTCHoldings),
	}
}

// @title           mNAV Tracker API
// @version         1.0
// @description     Daily MicroStrategy mNAV tracking with provider fallback and strategy signals.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	lastGood, err := openStoreFunc(ctx, store.Config{
		Driver:   cfg.StoreDriver,
		FilePath: cfg.DataFilePath,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	bounds := domain.Bounds{Min: cfg.MNAVMin, Max: cfg.MNAVMax}
	coinGecko := provider.NewCoinGeckoClient(tracer)

	resolver := newResolverFunc(
		tracer,
		buildProviders(tracer, cfg, bounds, coinGecko),
		lastGood,
		bounds,
		cfg.FallbackMNAV,
		time.Duration(cfg.AdapterTimeoutSecs)*time.Second,
		time.Duration(cfg.StalenessCeilingHours)*time.Hour,
	)
	nav := newNavServiceFunc(tracer, resolver, lastGood)

	history := strategy.NewHistory(time.Duration(cfg.SignalHistoryDays) * 24 * time.Hour)
	signals := strategy.NewEngine(tracer, coinGecko, provider.NewFearGreedClient(tracer), history)
	nav.OnReading(func(r domain.Reading) { signals.Record(r.FetchedAt, r.Value) })

	scheduler := newSchedulerFunc(nav)
	if err := startSchedulerFunc(scheduler, ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBot(nav, signals)

	h := newHandlerFunc(
		tracer,
		nav,
		signals,
		bounds,
		cfg.AdminToken,
		time.Duration(cfg.ResolveDeadlineSecs)*time.Second,
		version,
	)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("mnav-tracker"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := startHTTPServer(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServer(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
