package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpadp "servertime-api/internal/adapter/http"
	"servertime-api/internal/config"
	"servertime-api/internal/infrastructure/db"
	"servertime-api/internal/usecase/servertime"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	pool, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer func() { _ = pool.Close() }()

	uc := servertime.NewUsecase(pool, servertime.WithQueryTimeout(cfg.QueryTimeout))
	e := httpadp.NewServer(httpadp.NewHandler(pool), httpadp.NewDataHandler(uc))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		log.Printf("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
