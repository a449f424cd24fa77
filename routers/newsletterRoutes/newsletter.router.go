package newsletterRoutes

import (
	controllers "academy/controllers/newsletter"
	"academy/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNewsletterRoutes(app *fiber.App) {
	newsletterGroup := app.Group("/newsletter")

	newsletterGroup.Post("/subscribe", middleware.OptionalJWTMiddleware, controllers.Subscribe)
	newsletterGroup.Get("/unsubscribe/:token", controllers.Unsubscribe)

	blogGroup := app.Group("/blog")
	blogGroup.Get("/list", controllers.GetBlogPosts)
	blogGroup.Get("/:slug", controllers.GetBlogPost)
}
