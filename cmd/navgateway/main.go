// Command navgateway is the robot navigation gateway's entrypoint: a TCP
// server that authenticates a robot, walks it through the maze protocol, and
// mirrors session events to Redis and a fleet-operator dashboard.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vivrish/navgateway/internal/bridge"
	"github.com/vivrish/navgateway/internal/config"
	"github.com/vivrish/navgateway/internal/dashboard"
	"github.com/vivrish/navgateway/internal/driver"
	mw "github.com/vivrish/navgateway/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logging.Level)
	defer logger.Sync()
	sugar := logger.Sugar()

	logger.Info("Starting navgateway",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)),
		zap.Int("dashboard_port", cfg.Dashboard.Port),
	)

	// Redis is a best-effort event mirror. A dial failure degrades to
	// NoopPublisher rather than aborting startup: a robot connection must
	// never depend on Redis being reachable.
	var publisher bridge.Publisher
	redisPublisher, err := bridge.NewEventPublisher(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("redis connection failed, running without event persistence", zap.Error(err))
		publisher = bridge.NoopPublisher{}
	} else {
		publisher = redisPublisher
	}

	hub := dashboard.NewHub(logger)
	go hub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := driver.New(cfg.Timeouts, publisher, hub, sugar)

	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err != nil {
		logger.Fatal("failed to bind TCP listener", zap.Error(err))
	}
	// net.Listen does not expose the backlog Python's socket.listen(n)
	// takes directly; the OS default backlog already comfortably exceeds
	// AcceptBacklog for this protocol's connection volume, so the setting
	// is carried for configuration parity and documentation rather than
	// enforced through a syscall. See DESIGN.md.
	logger.Info("TCP listener accepting robot connections",
		zap.String("addr", listener.Addr().String()),
		zap.Int("accept_backlog", cfg.Server.AcceptBacklog),
	)

	go acceptLoop(ctx, listener, conn, logger)

	dashSrv := dashboard.NewServer(hub, logger)
	rateLimiter := mw.NewRateLimiter(120, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/dashboard", dashSrv.HandleWebSocket)
	mux.HandleFunc("/health", dashSrv.HealthHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Dashboard.Port),
		Handler:      rateLimiter.Middleware(mw.LoggingMiddleware(logger)(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("dashboard server starting", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("dashboard server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down gracefully...")
	cancel()
	listener.Close()

	if err := publisher.Close(); err != nil {
		logger.Warn("error closing event publisher", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("dashboard server shutdown error", zap.Error(err))
	}

	logger.Info("navgateway stopped")
}

// acceptLoop accepts robot connections until ctx is cancelled, handing each
// one to its own driver.Serve goroutine.
func acceptLoop(ctx context.Context, listener net.Listener, drv *driver.Driver, logger *zap.Logger) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				logger.Warn("accept failed", zap.Error(err))
				continue
			}
		}
		go drv.Serve(conn)
	}
}

func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
