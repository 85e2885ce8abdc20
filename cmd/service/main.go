package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/config"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/logging"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/service"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store/memory"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store/mongo"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/store/mysql"
)

const pingTimeout = 5 * time.Second

// Usage example on the command line:
// > PORT=3002 STORE=mysql DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run ./cmd/service
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("could not load configuration", err)
		os.Exit(1)
	}
	logger := logging.New(&cfg.Log)
	slog.SetDefault(logger)
	if mode := os.Getenv(gin.EnvGinMode); mode != "" {
		gin.SetMode(mode)
	}

	entries, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("could not open store", "store", cfg.Store, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	router := service.SetupHttpRouter(entries, logger, service.Options{
		StaticDir:      cfg.StaticDir,
		RequestLogging: cfg.GinLogging,
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server running", "port", cfg.Port, "store", cfg.Store)
	if err := runServer(ctx, srv); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// openStore creates the backend selected by the configuration. An unreachable database is only
// logged; both stores connect again on the next operation.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.Store {
	case config.StoreMongo:
		logger.Info("connecting to MongoDB", "database", cfg.MongoDatabase)
		s, err := mongo.Connect(cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.Ping(pingCtx); err != nil {
			logger.Error("error connecting to MongoDB", "err", err)
		} else {
			logger.Info("connected to MongoDB")
		}
		return s, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			defer cancel()
			_ = s.Close(closeCtx)
		}, nil
	case config.StoreMySQL:
		sqlDB, err := mysql.CreateDatabase(mysql.Options{
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Host:     cfg.DBHost,
			Database: cfg.DBName,
		})
		if err != nil {
			return nil, nil, err
		}
		s := mysql.New(sqlDB)
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.Prepare(pingCtx); err != nil {
			logger.Error("error connecting to MySQL", "err", err)
		} else {
			logger.Info("connected to MySQL")
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return memory.New(memory.NewIDPolicy(), memory.Seed()...), func() {}, nil
	}
}

// runServer serves until the context is cancelled and then shuts the server down gracefully.
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
