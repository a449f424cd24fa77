package reviewRoutes

import (
	controllers "academy/controllers/review"
	"academy/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupReviewRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")
	courseGroup.Post("/:id/review", middleware.JWTMiddleware, controllers.CreateReview)
	courseGroup.Get("/:id/reviews", controllers.GetReviews)

	reviewGroup := app.Group("/review")
	reviewGroup.Delete("/:id", middleware.JWTMiddleware, controllers.DeleteReview)
}
