package main

import (
	"log"

	"smmpanel/config"
	"smmpanel/counts"
	"smmpanel/database"
	"smmpanel/jobs"
	"smmpanel/middleware"
	"smmpanel/realtime"
	authRoutes "smmpanel/routers/authRoutes"
	catalogRoutes "smmpanel/routers/catalogRoutes"
	orderRoutes "smmpanel/routers/orderRoutes"
	supportRoutes "smmpanel/routers/supportRoutes"
	walletRoutes "smmpanel/routers/walletRoutes"
	"smmpanel/scripts"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	if err := scripts.SeedServices(database.Database.Db); err != nil {
		log.Printf("Warning: service seeding failed: %v", err)
	}

	counts.Init(config.AppConfig.CountsApiURL)

	if _, err := jobs.StartReconciler(database.Database.Db, config.AppConfig.ReconcileCron); err != nil {
		log.Fatalf("Failed to schedule reconciliation: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	walletRoutes.SetupWalletRoutes(app)
	orderRoutes.SetupOrderRoutes(app)
	catalogRoutes.SetupCatalogRoutes(app)
	supportRoutes.SetupSupportRoutes(app)

	// Realtime invalidation feed
	app.Get("/ws", middleware.JWTMiddleware, realtime.UpgradeRequired, realtime.Handler())

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
