package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/lucroclaro/backend/src/config"
	"github.com/username/lucroclaro/backend/src/database"
	"github.com/username/lucroclaro/backend/src/handlers"
	"github.com/username/lucroclaro/backend/src/logger"
	"github.com/username/lucroclaro/backend/src/processors"
	"github.com/username/lucroclaro/backend/src/scheduler"
	"github.com/username/lucroclaro/backend/src/services"
	"github.com/username/lucroclaro/backend/src/tiendanube"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("LucroClaro backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(15*time.Minute, 30*time.Minute)
	logger.L.Info("Report cache initialized.")

	logger.L.Info("Initializing services and handlers...")
	client := tiendanube.NewClient(tiendanube.Config{
		BaseURL:     config.Cfg.TiendaNubeBaseURL,
		StoreID:     config.Cfg.TiendaNubeStoreID,
		AccessToken: config.Cfg.TiendaNubeAccessToken,
		UserAgent:   config.Cfg.TiendaNubeUserAgent,
		Timeout:     config.Cfg.SyncRequestTimeout,
	})

	saleTransformer := processors.NewSaleTransformer()
	adSpendAllocator := processors.NewAdSpendAllocator()
	metricsProcessor := processors.NewMetricsProcessor()
	breakdownProcessor := processors.NewBreakdownProcessor()

	emailService := services.NewEmailService()
	settingsService := services.NewSettingsService()
	syncService := services.NewSyncService(
		client, saleTransformer, adSpendAllocator, metricsProcessor,
		settingsService, emailService, reportCache,
		services.SyncOptions{
			PageSize:          config.Cfg.SyncPageSize,
			MaxPages:          config.Cfg.SyncMaxPages,
			FetchFulfillments: config.Cfg.FetchFulfillments,
		},
	)

	salesHandler := handlers.NewSalesHandler(syncService)
	syncHandler := handlers.NewSyncHandler(syncService)
	breakdownHandler := handlers.NewBreakdownHandler(breakdownProcessor, settingsService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, syncService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("GET /api/sales", salesHandler.HandleGetSales)
	apiRouter.HandleFunc("GET /api/metrics", salesHandler.HandleGetDashboardMetrics)
	apiRouter.HandleFunc("GET /api/metrics/chart", salesHandler.HandleGetChartData)
	apiRouter.HandleFunc("POST /api/sync", syncHandler.HandleTriggerSync)
	apiRouter.HandleFunc("POST /api/orders/breakdown", breakdownHandler.HandleOrderBreakdown)
	apiRouter.HandleFunc("GET /api/settings", settingsHandler.HandleGetSettings)
	apiRouter.HandleFunc("PUT /api/settings", settingsHandler.HandleUpdateSettings)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "LucroClaro Backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Starting sync scheduler...")
	sched := scheduler.New(syncService, settingsService)
	if err := sched.Start(config.Cfg.SyncSchedule); err != nil {
		logger.L.Error("Failed to start sync scheduler", "schedule", config.Cfg.SyncSchedule, "error", err)
	}
	defer sched.Stop()

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
