// Package routes wires repositories, services and handlers onto the Fiber app.
package routes

import (
	"time"

	"adsouq/internal/config"
	"adsouq/internal/handlers"
	"adsouq/internal/middleware"
	"adsouq/internal/repositories"
	"adsouq/internal/services/ad"
	"adsouq/internal/services/schema"
	"adsouq/internal/services/sticker"
	"adsouq/internal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes builds the full dependency graph and registers every route.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	schemaTTL := time.Duration(config.GetIntEnv("SCHEMA_CACHE_TTL_SECONDS", 600)) * time.Second
	schemaService := schema.NewService(repositories.NewSchemaRepository(db), repositories.Cache, schemaTTL)
	adService := ad.NewService(repositories.NewAdRepository(db), schemaService, utils.NewAdCode)

	publicURL := func(adCode string) string {
		return config.PublicBaseURL() + "/ads/" + adCode
	}
	stickerService := sticker.NewService(
		repositories.NewQRCodeRepository(db),
		publicURL,
		sticker.NewPrometheusMetricsCollector(),
	)

	healthHandler := handlers.NewHealthHandler(db)
	schemaHandler := handlers.NewSchemaHandler(schemaService)
	adHandler := handlers.NewAdHandler(adService)
	qrHandler := handlers.NewQRHandler(stickerService)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api/v1")

	// Public surface: schema reads, published ads, sticker landing pages.
	api.Get("/categories/:key/schema", schemaHandler.GetCategorySchema)
	api.Get("/ads/:code", adHandler.PublicByCode)
	api.Get("/qr/:code", qrHandler.Landing)

	// Owner surface, JWT required.
	authed := api.Group("", middleware.Protected())
	authed.Post("/ads", adHandler.Create)
	authed.Get("/my/ads", adHandler.MyAds)
	authed.Patch("/ads/:id", adHandler.Update)
	authed.Post("/ads/:id/publish", adHandler.Publish)
	authed.Post("/ads/:id/unpublish", adHandler.Unpublish)
	authed.Post("/ads/:id/archive", adHandler.Archive)
	authed.Post("/qr/:code/claim", qrHandler.Claim)
	authed.Post("/qr/:code/activate", qrHandler.Activate)
}
