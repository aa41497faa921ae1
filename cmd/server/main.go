package main

import (
	"log"
	"net/http"

	"adsouq/internal/config"
	"adsouq/internal/repositories"
	"adsouq/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "adsouq",
		ErrorHandler: fiber.DefaultErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Sticker scans come from the open internet; cap per-IP throughput.
	app.Use("/api/v1/qr", limiter.New(limiter.Config{
		Max: config.GetIntEnv("QR_RATE_LIMIT", 30),
	}))

	routes.SetupRoutes(app, repositories.DB)

	go serveMetrics()

	port := config.GetEnv("PORT", "3000")
	log.Printf("listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// serveMetrics exposes Prometheus metrics on a side listener so the scrape
// endpoint never shares a port with public traffic.
func serveMetrics() {
	addr := ":" + config.GetEnv("METRICS_PORT", "9090")
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("metrics listener stopped: %v", err)
	}
}
