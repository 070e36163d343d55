package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/api"
	"github.com/abordodesign/habitofit/internal/config"
	"github.com/abordodesign/habitofit/internal/core"
	"github.com/abordodesign/habitofit/internal/db"
	"github.com/abordodesign/habitofit/internal/middleware"
	"github.com/abordodesign/habitofit/internal/payments"
)

func main() {
	// --- 1. Logger ---
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 2. Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded")

	// --- 3. Firebase Admin SDK (Firestore, Auth, Storage) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig); err != nil {
		zapLogger.Fatal("Failed to initialize Firebase Admin SDK", zap.Error(err))
	}

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firestoreClient == nil || firebaseAuthClient == nil {
		zapLogger.Fatal("Firestore or Firebase Auth client is nil after initialization")
	}

	// --- 4. Postgres (catalog, comments, notifications) ---
	verboseSQL := strings.ToLower(appConfig.GinMode) != "release"
	gormDB, err := db.InitPostgres(appConfig.DatabaseURL, verboseSQL)
	if err != nil {
		zapLogger.Fatal("Failed to initialize Postgres", zap.Error(err))
	}
	zapLogger.Info("Postgres connection established")

	// --- 5. Redis favorites cache ---
	favoritesCache, err := db.NewRedisFavoritesCache(initCtx, appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	zapLogger.Info("Redis connection established", zap.String("addr", appConfig.RedisAddr))

	// --- 6. Repositories ---
	customerRepo := db.NewFirestoreCustomerRepository(firestoreClient)
	favoriteRepo := db.NewFirestoreFavoriteRepository(firestoreClient)
	ratingRepo := db.NewFirestoreRatingRepository(firestoreClient)
	adminRepo := db.NewFirestoreAdminRepository(firestoreClient)
	catalogRepo := db.NewGormCatalogRepository(gormDB)
	commentRepo := db.NewGormCommentRepository(gormDB)
	notificationRepo := db.NewGormNotificationRepository(gormDB)
	fileStore := db.NewFirebaseFileStore(db.GetFirebaseStorageClient(), appConfig.StorageBucket)

	// --- 7. Payment provider ---
	stripeClient := payments.NewStripeClient(appConfig.StripeSecretKey, appConfig.StripeWebhookSecret)

	// --- 8. Services ---
	subscriptionService := core.NewSubscriptionService(customerRepo, zapLogger)
	billingService := core.NewBillingService(stripeClient, customerRepo, appConfig.ClientURL, zapLogger)
	catalogService := core.NewCatalogService(catalogRepo, zapLogger)
	favoritesService := core.NewFavoritesService(favoriteRepo, catalogRepo, favoritesCache, zapLogger)
	ratingService := core.NewRatingService(ratingRepo, catalogRepo, zapLogger)
	commentService := core.NewCommentService(commentRepo, catalogRepo, zapLogger)
	adminService := core.NewAdminService(adminRepo, customerRepo, notificationRepo, fileStore, zapLogger)
	zapLogger.Info("Core services initialized")

	// --- 9. Gin engine and global middleware ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	// --- 10. Routes ---
	api.SetupRoutes(
		router,
		zapLogger,
		catalogService,
		subscriptionService,
		billingService,
		favoritesService,
		ratingService,
		commentService,
		adminService,
	)

	// --- 11. HTTP server with graceful shutdown ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully")
}
