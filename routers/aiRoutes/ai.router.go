package aiRoutes

import (
	controllers "academy/controllers/ai"
	"academy/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAiRoutes(app *fiber.App) {
	aiGroup := app.Group("/ai")

	aiGroup.Post("/assistant", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR", "ADMIN"), controllers.CourseAssistant)
	aiGroup.Post("/tutor", middleware.JWTMiddleware, controllers.Tutor)
	aiGroup.Get("/recommendations", middleware.JWTMiddleware, controllers.Recommendations)
}
