package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lqviet/folio/internal/db"
	"github.com/lqviet/folio/internal/handlers"
	"github.com/lqviet/folio/internal/logger"
	"github.com/lqviet/folio/internal/models"
	"github.com/lqviet/folio/internal/services"

	"github.com/lqviet/folio/internal/repositories"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	zlog, err := logger.New("folio")
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Database connection
	config := db.NewConfig()
	database, err := db.Connect(config)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		zlog.Fatal("database health check failed", zap.Error(err))
	}
	if err := database.AutoMigrate(&models.Asset{}); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}
	zlog.Info("database connection established", zap.String("driver", config.Driver))

	// Initialize services
	assetStore := repositories.NewAssetRepository(database)
	provider := services.NewFMPClient(os.Getenv("FMP_API_KEY"), os.Getenv("FMP_BASE_URL"), zlog)
	marketDataService := services.NewMarketDataService(provider, zlog)
	portfolioService := services.NewPortfolioService(assetStore, marketDataService, zlog)
	riskService := services.NewRiskService(portfolioService)

	// Initialize handlers
	assetHandler := handlers.NewAssetHandler(assetStore)
	marketDataHandler := handlers.NewMarketDataHandler(marketDataService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, riskService, assetStore)

	// Setup routes
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "folio-backend",
		})
	})

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/assets", assetHandler.HandleAssets)
	api.HandleFunc("/assets/connections/{source}", assetHandler.HandleConnectionAssets)
	api.HandleFunc("/assets/{id}", assetHandler.HandleAsset)

	api.HandleFunc("/market-data", marketDataHandler.HandleBatch)
	api.HandleFunc("/market-data/quote", marketDataHandler.HandleQuote)
	api.HandleFunc("/market-data/profile", marketDataHandler.HandleProfile)
	api.HandleFunc("/market-data/historical", marketDataHandler.HandleHistorical)

	api.HandleFunc("/portfolio/summary", portfolioHandler.HandleSummary)
	api.HandleFunc("/portfolio/refresh", portfolioHandler.HandleRefresh)
	api.HandleFunc("/portfolio/risk", portfolioHandler.HandleRisk)

	// CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	zlog.Info("server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, corsHandler(router)); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
