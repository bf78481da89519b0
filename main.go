package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/rbhsum/internal/config"
	"github.com/yumyai/rbhsum/logger"
	mydb "github.com/yumyai/rbhsum/pkg/db"
	"github.com/yumyai/rbhsum/pkg/handler"
	"github.com/yumyai/rbhsum/pkg/metrics"
	"github.com/yumyai/rbhsum/pkg/middle"
)

const VERSION = "0.1.0"

func main() {

	cfg := config.Load()

	// Establish logger
	if err := logger.InitLogger(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	if !cfg.DotEnv {
		logger.Warn("No .env found, using local environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		logger.Fatal("Unable to create data directory", zap.String("path", cfg.SQLitePath), zap.Error(err))
	}

	store, err := mydb.Open(ctx, cfg.SQLitePath)
	if err != nil {
		logger.Fatal("Unable to open database", zap.String("DB_LOC", cfg.SQLitePath), zap.Error(err))
	}
	defer store.Close()

	// Sequence files are optional; without them reverse queries and FASTA
	// export are unavailable.
	seqdb, err := mydb.NewSequenceDB(cfg.SequenceDir)
	if err != nil {
		logger.Warn("No sequence store, FASTA export disabled", zap.String("dir", cfg.SequenceDir), zap.Error(err))
		seqdb = nil
	}

	metrics.Register()
	dbctx := handler.NewDBContext(ctx, store, seqdb, cfg.BinDir)

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Open database on", zap.String("DB_LOC", cfg.SQLitePath))

	mux := handler.NewRouter(dbctx)

	// Apply middleware
	base := logger.L()
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           middle.Chain(mux, middle.RequestIDMiddleware(base), middle.LoggingMiddleware(base)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown", zap.Error(err))
		}
	}()

	logger.Info("Server starting", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Error starting server:", zap.String("error message", err.Error()))
	}
}
