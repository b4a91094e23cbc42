package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tripbound/travel-booking-backend/internal/cache"
	"github.com/tripbound/travel-booking-backend/internal/config"
	"github.com/tripbound/travel-booking-backend/internal/database"
	"github.com/tripbound/travel-booking-backend/internal/handlers"
	"github.com/tripbound/travel-booking-backend/internal/metrics"
	"github.com/tripbound/travel-booking-backend/internal/middleware"
	"github.com/tripbound/travel-booking-backend/internal/services"
	"github.com/tripbound/travel-booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	logrus.Info("Starting Travel Booking Backend")
	logrus.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logrus.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logrus.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logrus.Info("Database connection established")

	// Initialize search cache (optional)
	searchCache, err := cache.NewSearchCache(cfg.Redis)
	if err != nil {
		logrus.Fatalf("Failed to connect to redis: %v", err)
	}
	if searchCache != nil {
		defer searchCache.Close()
		logrus.Info("Search cache enabled")
	} else {
		logrus.Info("Search cache disabled")
	}

	// Register Prometheus collectors
	metrics.Register()

	// Initialize repositories
	hotelRepo := database.NewHotelRepository(db.DB)
	flightRepo := database.NewFlightRepository(db.DB)
	trainRepo := database.NewTrainRepository(db.DB)
	bookingRepo := database.NewBookingRepository(db.DB)

	// Initialize services
	logrus.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	hotelService := services.NewHotelService(hotelRepo, bookingRepo, searchCache)
	flightService := services.NewFlightService(flightRepo, bookingRepo, searchCache)
	trainService := services.NewTrainService(trainRepo, bookingRepo, searchCache)
	bookingService := services.NewBookingService(bookingRepo, cfg.Booking.StatsFetchCap)
	logrus.Info("Services initialized")

	// Initialize handlers
	hotelHandler := handlers.NewHotelHandler(hotelService)
	flightHandler := handlers.NewFlightHandler(flightService)
	trainHandler := handlers.NewTrainHandler(trainService)
	bookingHandler := handlers.NewBookingHandler(bookingService)

	if err := handlers.RegisterValidations(); err != nil {
		logrus.Fatalf("Failed to register validations: %v", err)
	}

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Server.EnableRequestLog {
		router.Use(middleware.RequestLogger())
	}
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check and metrics endpoints
	router.GET("/health", healthCheckHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api")
	auth := middleware.AuthMiddleware(jwtService)
	{
		hotels := api.Group("/hotels")
		{
			hotels.GET("/search", hotelHandler.Search)
			hotels.GET("/:id", hotelHandler.GetHotel)
			hotels.GET("/:id/availability", hotelHandler.CheckAvailability)
			hotels.POST("/bookings", auth, hotelHandler.CreateBooking)
		}

		flights := api.Group("/flights")
		{
			flights.GET("/search", flightHandler.Search)
			flights.GET("/:id", flightHandler.GetFlight)
			flights.GET("/:id/availability", flightHandler.CheckAvailability)
			flights.POST("/bookings", auth, flightHandler.CreateBooking)
		}

		trains := api.Group("/trains")
		{
			trains.GET("/search", trainHandler.Search)
			trains.GET("/:id", trainHandler.GetTrain)
			trains.GET("/:id/availability", trainHandler.CheckAvailability)
			trains.POST("/bookings", auth, trainHandler.CreateBooking)
		}

		bookings := api.Group("/bookings", auth)
		{
			bookings.GET("", bookingHandler.List)
			bookings.GET("/stats", bookingHandler.Stats)
			bookings.GET("/:id", bookingHandler.GetByID)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited successfully")
}

// healthCheckHandler reports process and database health
func healthCheckHandler(db *database.PostgresDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}
