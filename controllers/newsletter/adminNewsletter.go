package newsletterController

import (
	"academy/database"
	"academy/middleware"
	"academy/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

// GenerateBlog triggers the weekly blog generation on demand instead of
// waiting for the Monday cron run.
func GenerateBlog(c *fiber.Ctx) error {
	post, err := utils.GenerateWeeklyBlog(database.Database.Db)
	if err != nil {
		log.Printf("Manual blog generation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to generate blog post!", nil)
	}
	if post == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No published course to write about yet!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Blog post generated successfully!", post)
}

// SendNewsletter dispatches the latest unsent post to all subscribers.
func SendNewsletter(c *fiber.Ctx) error {
	sent, failed, err := utils.SendWeeklyNewsletter(database.Database.Db)
	if err != nil {
		log.Printf("Manual newsletter dispatch failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Newsletter sent!", fiber.Map{
		"sent":   sent,
		"failed": failed,
	})
}
