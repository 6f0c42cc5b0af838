package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"geofencing-app/geofencing-service/internal/config"
	"geofencing-app/geofencing-service/internal/handler"
	"geofencing-app/geofencing-service/internal/repository"
	"geofencing-app/geofencing-service/internal/services"
	"geofencing-app/geofencing-service/internal/utils"
)

func main() {
	baseCtx := context.Background()
	ctx, shutdownManager := utils.NewShutdownManager(baseCtx)
	shutdownManager.StartListening()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Mongo connection failed:", err)
	}
	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})
	db := mongoClient.Database("geofencing_service")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return redisClient.Close()
	})

	nefClient := utils.NewNEFClient(cfg.NEFURL, cfg.NEFUsername, cfg.NEFPassword, redisClient)
	if err := nefClient.Login(ctx); err != nil {
		// The NEF may come up after us; GetPosition retries the login.
		log.Println("[NEF] Initial login failed:", err)
	}

	store := repository.NewSubscriptionStore()
	notificator := services.NewNotificator(services.NewEventLogger(db))
	geofencingService := services.NewGeofencingService(store, notificator, cfg.MinRadiusMeters)
	locationService := services.NewLocationService(nefClient)

	monitor := services.NewMonitor(store, nefClient, notificator, cfg.MonitorInterval)
	go monitor.Start(ctx)

	subscriptionHandler := handler.NewSubscriptionHandler(geofencingService)
	locationHandler := handler.NewLocationHandler(locationService)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	subs := router.Group("/geofencing-subscriptions/v0.4/subscriptions")
	{
		subs.POST("", subscriptionHandler.Create)
		subs.GET("", subscriptionHandler.List)
		subs.GET("/:id", subscriptionHandler.Get)
		subs.DELETE("/:id", subscriptionHandler.Delete)
	}

	router.POST("/location-verification/v1/location/verify", locationHandler.Verify)
	router.POST("/location-retrieval/v0.4/retrieve", locationHandler.Retrieve)
	router.POST("/callback", locationHandler.Callback)
	router.GET("/health", locationHandler.Health)

	server := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Println("Geofencing service running on", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Shutting down HTTP server...")
		return server.Shutdown(ctx)
	})

	select {}
}
