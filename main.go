package main

import (
	"academy/config"
	"academy/database"
	adminRoutes "academy/routers/adminRoutes"
	aiRoutes "academy/routers/aiRoutes"
	authRoutes "academy/routers/authRoutes"
	courseRoutes "academy/routers/courseRoutes"
	newsletterRoutes "academy/routers/newsletterRoutes"
	paymentRoutes "academy/routers/paymentRoutes"
	reviewRoutes "academy/routers/reviewRoutes"
	"academy/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/robfig/cron/v3"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization,Stripe-Signature",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	reviewRoutes.SetupReviewRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	aiRoutes.SetupAiRoutes(app)
	newsletterRoutes.SetupNewsletterRoutes(app)

	// Weekly newsletter generation and dispatch
	scheduler := cron.New()
	utils.StartNewsletterScheduler(scheduler)
	scheduler.Start()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
