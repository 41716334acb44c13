package main

import (
	"context"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/sales-analytics/internal/cache"
	"github.com/rogerio-castellano/sales-analytics/internal/config"
	"github.com/rogerio-castellano/sales-analytics/internal/db"
	api "github.com/rogerio-castellano/sales-analytics/internal/http"
	"github.com/rogerio-castellano/sales-analytics/internal/http/handlers"
	rl "github.com/rogerio-castellano/sales-analytics/internal/http/rate_limiter"
	"github.com/rogerio-castellano/sales-analytics/internal/repo"
	"github.com/rogerio-castellano/sales-analytics/internal/report"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}
	defer database.Close()

	var digestCache cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		ctx := context.Background()
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		defer rdb.Close()
		digestCache = cache.NewRedis(rdb, ctx)
	}

	salesRepo := repo.NewPostgresSalesRepository(database)
	handlers.SetSalesRepo(salesRepo)
	handlers.SetReportService(report.NewService(salesRepo, digestCache, cfg.DashboardCacheTTL))

	go rl.StartVisitorCleanupLoop()

	r := api.NewRouter()
	log.Println("✅ Server running on", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatal(err)
	}
}
