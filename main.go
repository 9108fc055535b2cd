package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/analytics"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/database"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/geo"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/handlers"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/middleware"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/store"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Secrets are checked up front: a missing unsubscribe secret must
	// fail the process, never silently verify tokens as valid.
	adminKey := os.Getenv("ADMIN_KEY")
	if adminKey == "" {
		log.Fatal("ADMIN_KEY environment variable is not set")
	}
	tokenService, err := utils.NewUnsubscribeTokenService(os.Getenv("UNSUBSCRIBE_SECRET"))
	if err != nil {
		log.Fatalf("Failed to initialize unsubscribe tokens: %v", err)
	}

	// --- Databases ---
	pgClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	defer pgClient.Close()

	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse: %v", err)
	}
	defer chClient.Close()

	// --- Geolocation cache: shared via Redis when configured, otherwise
	// process-local for the lifetime of this instance. ---
	var geoCache geo.Cache
	redisClient, err := database.NewRedisClient()
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		geoCache = geo.NewRedisCache(redisClient)
		log.Println("Geolocation cache backed by Redis.")
	} else {
		geoCache = geo.NewMemoryCache()
		log.Println("REDIS_URL not set, using in-process geolocation cache.")
	}

	// --- Stores and services ---
	eventStore := store.NewEventStore(chClient)
	subscriberStore := store.NewSubscriberStore(pgClient.DB)
	sessionStore := store.NewSessionStore()

	resolver := geo.NewResolver(geoCache)
	ingestor := analytics.NewIngestor(eventStore, resolver)
	engine := analytics.NewEngine(eventStore)

	// --- Handlers ---
	trackHandlers := handlers.NewTrackHandlers(ingestor)
	analyticsHandlers := handlers.NewAnalyticsHandlers(engine)
	authHandlers := handlers.NewAuthHandlers(sessionStore, adminKey)
	unsubscribeHandlers := handlers.NewUnsubscribeHandlers(tokenService, subscriberStore)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/track", trackHandlers.TrackEvent)

		api.GET("/unsubscribe", unsubscribeHandlers.Redirect)
		api.POST("/unsubscribe", unsubscribeHandlers.Unsubscribe)

		api.POST("/admin/session", authHandlers.Login)
		api.DELETE("/admin/session", authHandlers.Logout)

		protected := api.Group("/admin")
		protected.Use(middleware.AdminRequired(sessionStore))
		{
			protected.GET("/analytics", analyticsHandlers.GetAnalytics)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Analytics API listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
