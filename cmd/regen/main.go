package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"regen/internal/api"
	"regen/internal/config"
	"regen/internal/logger"
	"regen/internal/notify"
	"regen/internal/solvesvc"
	"regen/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg := config.Load()
	appLogger := logger.New(500)

	var database store.Database
	var err error

	if cfg.DatabaseURL == "" {
		appLogger.Warn("DATABASE_URL not set - running in demo mode")
		database = store.NewMockWithSampleData()
	} else {
		database, err = store.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Database error: %v", err)
		}
		appLogger.Info("Connected to database")
	}
	defer database.Close()

	notifier := notify.New(cfg.PushoverAppToken, cfg.PushoverUserKey)
	if notifier.IsEnabled() {
		appLogger.Info("Pushover notifications enabled")
	}

	svc := solvesvc.New(database, notifier, appLogger, cfg.Workers, cfg.LLLDeltaNum, cfg.LLLDeltaDen)

	handler := api.NewHandler(svc, database, appLogger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		appLogger.Log("Shutting down...")
		os.Exit(0)
	}()

	addrs := strings.Split(cfg.BindAddrs, ",")
	for i, addr := range addrs[:len(addrs)-1] {
		listenAddr := fmt.Sprintf("%s:%s", strings.TrimSpace(addr), cfg.Port)
		appLogger.Log("Starting server on %s", listenAddr)
		go func(la string, idx int) {
			if err := http.ListenAndServe(la, mux); err != nil {
				log.Printf("Listener %d error: %v", idx, err)
			}
		}(listenAddr, i)
	}

	lastAddr := fmt.Sprintf("%s:%s", strings.TrimSpace(addrs[len(addrs)-1]), cfg.Port)
	appLogger.Log("Starting server on %s", lastAddr)
	log.Fatal(http.ListenAndServe(lastAddr, mux))
}
