package adminRoutes

import (
	adminControllers "academy/controllers/admin"
	courseControllers "academy/controllers/course"
	newsletterControllers "academy/controllers/newsletter"
	"academy/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	// Public landing-page counters
	app.Get("/stats", adminControllers.Stats)

	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	adminGroup.Get("/analytics", adminControllers.Analytics)

	adminGroup.Get("/users", adminControllers.ListUsers)
	adminGroup.Patch("/user/:id/role", adminControllers.UpdateUserRole)
	adminGroup.Patch("/user/:id/status", adminControllers.ToggleUserStatus)
	adminGroup.Delete("/user/:id", adminControllers.DeleteUser)

	adminGroup.Get("/courses/pending", adminControllers.PendingCourses)
	adminGroup.Patch("/course/:id/moderate", courseControllers.ModerateCourse)
	adminGroup.Patch("/course/:id/feature", courseControllers.FeatureCourse)

	adminGroup.Post("/newsletter/generate", newsletterControllers.GenerateBlog)
	adminGroup.Post("/newsletter/send", newsletterControllers.SendNewsletter)
}
