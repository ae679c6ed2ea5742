package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/promptatrium/atrium-api/internal/config"
	"github.com/promptatrium/atrium-api/internal/database"
	"github.com/promptatrium/atrium-api/internal/handlers"
	authmw "github.com/promptatrium/atrium-api/internal/middleware"
	"github.com/promptatrium/atrium-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	promptService := services.NewPromptService(db)
	collectionService := services.NewCollectionService(db)
	communityService := services.NewCommunityService(db)
	migrationService := services.NewCommunityMigrationService(db)
	marketplaceService := services.NewMarketplaceService(db)
	analyticsService := services.NewAnalyticsService(db)
	keywordService := services.NewKeywordService(db)

	authHandler := handlers.NewAuthHandler(cfg, userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	promptHandler := handlers.NewPromptHandler(promptService, keywordService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService, promptService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, migrationService)
	keywordHandler := handlers.NewKeywordHandler(keywordService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	api.Get("/prompts/public", promptHandler.ListPublic)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Get("/prompts", promptHandler.List)
	protected.Post("/prompts", promptHandler.Create)
	protected.Post("/prompts/bulk", promptHandler.Bulk)
	protected.Post("/prompts/export", promptHandler.Export)
	protected.Post("/prompts/generate", promptHandler.Generate)
	protected.Get("/prompts/:promptId", promptHandler.Get)
	protected.Patch("/prompts/:promptId", promptHandler.Update)
	protected.Delete("/prompts/:promptId", promptHandler.Delete)

	protected.Get("/collections", collectionHandler.List)
	protected.Post("/collections", collectionHandler.Create)
	protected.Get("/collections/:collectionId", collectionHandler.Get)
	protected.Patch("/collections/:collectionId", collectionHandler.Update)
	protected.Patch("/collections/:collectionId/visibility", collectionHandler.SetVisibility)
	protected.Delete("/collections/:collectionId", collectionHandler.Delete)

	protected.Get("/communities", communityHandler.List)
	protected.Post("/communities", communityHandler.Create)
	protected.Get("/communities/:communityId", communityHandler.Get)
	protected.Patch("/communities/:communityId", communityHandler.Update)
	protected.Delete("/communities/:communityId", communityHandler.Deactivate)
	protected.Get("/communities/:communityId/children", communityHandler.ListChildren)
	protected.Post("/communities/:communityId/children", communityHandler.CreateSub)
	protected.Post("/communities/:communityId/join", communityHandler.Join)
	protected.Post("/communities/:communityId/leave", communityHandler.Leave)
	protected.Get("/communities/:communityId/members", communityHandler.GetMembers)

	protected.Get("/keywords", keywordHandler.Search)

	protected.Post("/sellers", marketplaceHandler.BecomeSeller)
	protected.Get("/sellers/me", marketplaceHandler.GetMySeller)
	protected.Post("/listings", marketplaceHandler.CreateListing)

	admin := protected.Group("/admin")
	admin.Use(authmw.RequireAdmin())

	admin.Get("/marketplace/settings", marketplaceHandler.GetSettings)
	admin.Patch("/marketplace/settings", marketplaceHandler.UpdateSettings)
	admin.Get("/marketplace/sellers", marketplaceHandler.ListSellers)
	admin.Patch("/marketplace/sellers/:sellerId/status", marketplaceHandler.SetSellerStatus)
	admin.Get("/marketplace/listings", marketplaceHandler.ListListings)
	admin.Patch("/marketplace/listings/:listingId", marketplaceHandler.UpdateListing)
	admin.Post("/marketplace/payouts", marketplaceHandler.ProcessPayouts)

	admin.Get("/analytics/overview", analyticsHandler.Overview)
	admin.Get("/analytics/activity", analyticsHandler.PromptActivity)

	admin.Get("/migration/communities", analyticsHandler.MigrationPreview)
	admin.Post("/migration/communities", analyticsHandler.MigrationRun)

	admin.Post("/keywords", keywordHandler.Create)
	admin.Patch("/keywords/:keywordId", keywordHandler.Update)
	admin.Delete("/keywords/:keywordId", keywordHandler.Delete)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
