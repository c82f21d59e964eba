package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cashbox/internal/config"
	"cashbox/internal/db"
	"cashbox/internal/handlers"
	"cashbox/internal/ledger"
	"cashbox/internal/logging"
	"cashbox/internal/store"
	"cashbox/internal/websocket"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger, cleanup := logging.Init(cfg.AppEnv)
	defer cleanup()

	if cfg.AppEnv == "production" && cfg.InsecureSecret() {
		logger.Fatal("JWT_SECRET must be set in production")
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close()

	users := store.NewUserStore(database)
	customers := store.NewCustomerStore(database)
	currencies := store.NewCurrencyStore(database)
	accountTypes := store.NewAccountTypeStore(database)
	boxes := store.NewCashBoxStore(database)
	transactions := store.NewTransactionStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	service := ledger.NewService(txRunner, customers, boxes, transactions, audit, hub)

	handler := handlers.New(txRunner, cfg, users, customers, currencies, accountTypes, boxes, transactions, audit, service, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("cashbox API listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", zap.Error(err))
	}
}
