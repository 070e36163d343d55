package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/core"
	"github.com/abordodesign/habitofit/internal/db"
	"github.com/abordodesign/habitofit/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (Logging, Recovery, CORS) are applied to
// the router before this function is called, in main.go.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	catalogService core.CatalogService,
	subscriptionService core.SubscriptionService,
	billingService core.BillingService,
	favoritesService core.FavoritesService,
	ratingService core.RatingService,
	commentService core.CommentService,
	adminService core.AdminService,
) {
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("Firebase Auth client is not initialized; routes cannot be secured")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, logger)
	adminMW := middleware.NewAdminMiddleware(adminService, logger)

	catalogHandler := NewCatalogHandler(catalogService, subscriptionService, logger)
	subscriptionHandler := NewSubscriptionHandler(subscriptionService, logger)
	billingHandler := NewBillingHandler(billingService, logger)
	favoritesHandler := NewFavoritesHandler(favoritesService, logger)
	ratingHandler := NewRatingHandler(ratingService, logger)
	commentHandler := NewCommentHandler(commentService, adminService, logger)
	adminHandler := NewAdminHandler(adminService, logger)

	apiV1 := router.Group("/api/v1")
	{
		// --- Catalog (browsing is open to any signed-in user; episodes are
		// gated inside the handler) ---
		seriesGroup := apiV1.Group("/series", authMW.VerifyToken())
		{
			seriesGroup.GET("", catalogHandler.ListSeries)
			seriesGroup.GET("/:seriesId", catalogHandler.GetSeries)
			seriesGroup.GET("/:seriesId/episodes", catalogHandler.ListEpisodes)
		}

		// --- Subscription gate ---
		apiV1.GET("/subscription/status", authMW.VerifyToken(), subscriptionHandler.GetStatus)

		// --- Billing ---
		billingGroup := apiV1.Group("/billing")
		{
			billingGroup.GET("/summary", authMW.VerifyToken(), billingHandler.GetSummary)
			billingGroup.GET("/card", authMW.VerifyToken(), billingHandler.GetCard)
			billingGroup.GET("/expiry", authMW.VerifyToken(), billingHandler.GetExpiry)
			billingGroup.GET("/status", authMW.VerifyToken(), billingHandler.GetStatus)
			billingGroup.POST("/link-customer", authMW.VerifyToken(), billingHandler.LinkCustomer)
			billingGroup.POST("/create-checkout-session", authMW.VerifyToken(), billingHandler.CreateCheckoutSession)
			billingGroup.POST("/create-portal-session", authMW.VerifyToken(), billingHandler.CreatePortalSession)

			// Public webhook endpoint: Stripe authenticates deliveries with
			// the Stripe-Signature header, not a bearer token.
			billingGroup.POST("/webhooks/stripe", billingHandler.HandleStripeWebhook)
		}

		// --- Favorites ---
		favoritesGroup := apiV1.Group("/favorites", authMW.VerifyToken())
		{
			favoritesGroup.GET("", favoritesHandler.List)
			// PUT and POST both add: the write is idempotent either way.
			favoritesGroup.PUT("/:seriesId", favoritesHandler.Add)
			favoritesGroup.POST("/:seriesId", favoritesHandler.Add)
			favoritesGroup.DELETE("/:seriesId", favoritesHandler.Remove)
			favoritesGroup.GET("/:seriesId/status", favoritesHandler.GetStatus)
		}

		// --- Ratings ---
		ratingsGroup := apiV1.Group("/ratings", authMW.VerifyToken())
		{
			ratingsGroup.POST("", ratingHandler.Rate)
			ratingsGroup.GET("/:itemType/:itemId", ratingHandler.Get)
		}

		// --- Comments ---
		apiV1.GET("/episodes/:episodeId/comments", authMW.VerifyToken(), commentHandler.List)
		apiV1.POST("/episodes/:episodeId/comments", authMW.VerifyToken(), commentHandler.Create)
		apiV1.DELETE("/comments/:commentId", authMW.VerifyToken(), commentHandler.Delete)

		// --- Staff panel ---
		// /admin/me is behind auth only so the client can probe the role.
		apiV1.GET("/admin/me", authMW.VerifyToken(), adminHandler.CheckRole)

		adminGroup := apiV1.Group("/admin", authMW.VerifyToken(), adminMW.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)

			adminGroup.GET("/notifications", adminHandler.ListNotifications)
			adminGroup.POST("/notifications", adminHandler.CreateNotification)
			adminGroup.PUT("/notifications/:notificationId", adminHandler.UpdateNotification)
			adminGroup.DELETE("/notifications/:notificationId", adminHandler.DeleteNotification)

			adminGroup.POST("/upload", adminHandler.Upload)

			adminGroup.POST("/series", catalogHandler.CreateSeries)
			adminGroup.PUT("/series/:seriesId", catalogHandler.UpdateSeries)
			adminGroup.DELETE("/series/:seriesId", catalogHandler.DeleteSeries)
			adminGroup.POST("/episodes", catalogHandler.CreateEpisode)
			adminGroup.PUT("/episodes/:episodeId", catalogHandler.UpdateEpisode)
			adminGroup.DELETE("/episodes/:episodeId", catalogHandler.DeleteEpisode)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api/v1")
}
