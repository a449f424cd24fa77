package authRoutes

import (
	authControllers "academy/controllers/auth"
	instructorControllers "academy/controllers/instructor"
	"academy/middleware"
	authValidators "academy/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Post("/forgot/password", authValidators.ForgotPassword(), authControllers.ForgotPassword)
	authGroup.Post("/reset/password", authValidators.ResetPassword(), authControllers.ResetPassword)
	authGroup.Put("/change/password", middleware.JWTMiddleware, authValidators.UpdatePassword(), authControllers.UpdatePassword)

	userGroup := app.Group("/user")
	userGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
	userGroup.Put("/profile", middleware.JWTMiddleware, authControllers.UpdateProfile)
	userGroup.Get("/:id/profile", authControllers.PublicProfile)

	instructorGroup := app.Group("/instructor")
	instructorGroup.Post("/apply", middleware.JWTMiddleware, instructorControllers.Apply)
	instructorGroup.Get("/list", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), instructorControllers.List)
	instructorGroup.Patch("/:id/approve", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), instructorControllers.Approve)
}
