// Command todod runs the todo service HTTP daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/todo-service/internal/api"
	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/service"
	"github.com/nhle/todo-service/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("loading config", "err", err)
	}

	logger := newLogger(cfg.Log.Level)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Fatal("opening store", "path", cfg.Database.Path, "err", err)
	}
	defer st.Close()

	svc := service.NewLifecycle(st, logger)
	srv := api.NewServer(svc, cfg.Server, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "db", cfg.Database.Path)
		errCh <- httpSrv.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "err", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}

	logger.Info("stopped")
}

// newLogger builds the daemon logger, falling back to info when the
// configured level does not parse.
func newLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "todod",
	})
}
