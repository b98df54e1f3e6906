package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mnav-tracker/internal/config"
	"mnav-tracker/internal/job"
	"mnav-tracker/internal/service"
	"mnav-tracker/internal/signal"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(t)
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps(t *testing.T) func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origStartScheduler := startSchedulerFunc
	origStartTelegram := startTelegramBot
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServer
	origShutdownHTTP := shutdownHTTPServer

	dataFile := filepath.Join(t.TempDir(), "mnav.json")

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			Port:                  "8080",
			StoreDriver:           "file",
			DataFilePath:          dataFile,
			MNAVMin:               0.1,
			MNAVMax:               10.0,
			FallbackMNAV:          2.5,
			AdapterTimeoutSecs:    1,
			ResolveDeadlineSecs:   1,
			StalenessCeilingHours: 72,
			SignalHistoryDays:     90,
			BTCHoldings:           607770,
		}
	}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	startSchedulerFunc = func(*job.RefreshScheduler, context.Context) error { return nil }
	startTelegramBot = func(*service.NavService, *signal.Engine) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServer = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServer = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		startSchedulerFunc = origStartScheduler
		startTelegramBot = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServer = origStartHTTP
		shutdownHTTPServer = origShutdownHTTP
	}
}
