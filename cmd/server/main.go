package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"avalom-backend/internal/cache"
	"avalom-backend/internal/config"
	"avalom-backend/internal/database"
	"avalom-backend/internal/db"
	"avalom-backend/internal/handlers"
	"avalom-backend/internal/health"
	h "avalom-backend/internal/http"
	"avalom-backend/internal/middleware"
	"avalom-backend/internal/repositories"
	"avalom-backend/internal/services"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.NewMigrator(pool).Run(ctx); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if err := cache.Init(cfg); err != nil {
		log.Printf("[Cache] redis unavailable, running without cache: %v", err)
	}

	store := repositories.NewStore(pool)
	accountingService := services.NewAccountingService(store)

	accountingHandler := handlers.NewAccountingHandler(accountingService)
	periodHandler := handlers.NewPeriodHandler(accountingService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	router := h.NewRouter(accountingHandler, periodHandler, healthHandler)

	handler := middleware.PanicRecovery(
		middleware.NewCORS(cfg)(
			middleware.MetricsMiddleware(router),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("avalom-backend listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
