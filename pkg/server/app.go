package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"TradePulse/internal/domain/repository"
	"TradePulse/internal/handler/api"
	icache "TradePulse/internal/service/cache"
	"TradePulse/internal/usecase"
	pkgch "TradePulse/pkg/clickhouse"
	"TradePulse/pkg/config"
	xhttp "TradePulse/pkg/http"
	pkgkafka "TradePulse/pkg/kafka"
	applogger "TradePulse/pkg/logger"
	pkgqueue "TradePulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.QuoteCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	publisher   repository.SignalPublisher
	queue       *pkgqueue.RedisQueue

	signals  *usecase.SignalsUseCase
	batch    *usecase.BatchScanUseCase
	backtest *usecase.BacktestUseCase
	candles  *usecase.CandlesUseCase
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetPublisher keeps the signal publisher for closing on shutdown.
func (a *App) SetPublisher(p repository.SignalPublisher) { a.publisher = p }

// SetUseCases injects the signal use cases used to build the default handler.
func (a *App) SetUseCases(
	signals *usecase.SignalsUseCase,
	batch *usecase.BatchScanUseCase,
	backtest *usecase.BacktestUseCase,
	candles *usecase.CandlesUseCase,
) {
	a.signals = signals
	a.batch = batch
	a.backtest = backtest
	a.candles = candles
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	if a.signals != nil {
		a.signals.SetLogger(l)
	}
	if a.backtest != nil {
		a.backtest.SetLogger(l)
	}

	// Async backtest jobs run over Redis when enabled.
	if a.cfg.Redis.Enabled && a.backtest != nil {
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		workers := a.cfg.Backtest.Workers
		if workers <= 0 {
			workers = 2
		}
		a.queue = pkgqueue.NewRedisQueue(l, &pkgqueue.QueueConfig{
			Workers:    workers,
			QueueSize:  100,
			RetryLimit: 1,
			RetryDelay: 5 * time.Second,
		}, rdb, pkgqueue.ModeProducerConsumer)
		a.queue.RegisterJob(usecase.NewBacktestRunner(a.backtest, l))

		jobs := icache.NewRedisCache(icache.RedisConfig{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		a.backtest.SetQueue(a.queue, jobs, a.cfg.Backtest.JobTTL)

		if err := a.queue.Start(); err != nil {
			l.Error("redis queue start error", applogger.Error(err))
			return err
		}
		l.Info("redis queue started", applogger.Int("workers", workers))
	}

	// Setup Echo HTTP server using pkg/http and register routes via handler
	var httpHandler xhttp.Handler
	if a.httpHandler != nil {
		httpHandler = a.httpHandler
	} else if a.signals != nil {
		httpHandler = api.NewSignalsEchoHandler(l, a.signals, a.batch, a.backtest, a.candles)
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	a.httpServer.Echo().GET("/health", a.healthHandler)

	// Start collector when a live stream is configured
	if a.collector != nil && a.cfg.Provider.WebSocketURL != "" {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("collector started", applogger.Strings("symbols", a.cfg.Provider.Symbols))
	}

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// healthHandler checks infrastructure dependencies.
func (a *App) healthHandler(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if a.chClient != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := a.chClient.Health(ctx); err != nil {
			status["status"] = "degraded"
			status["clickhouse"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		status["clickhouse"] = "ok"
	}
	return c.JSON(http.StatusOK, status)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// best-effort logging via stdout
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop queue workers before infrastructure clients go away
	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			l.Warn("redis queue stop error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close Kafka producer via publisher
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			l.Warn("publisher close error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
