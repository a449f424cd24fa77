package paymentRoutes

import (
	controllers "academy/controllers/payment"
	"academy/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/checkout", middleware.JWTMiddleware, controllers.CreateCheckout)
	paymentGroup.Get("/status/:sessionId", middleware.JWTMiddleware, controllers.CheckPaymentStatus)
	paymentGroup.Get("/history", middleware.JWTMiddleware, controllers.MyPayments)

	// Signature-verified; no JWT
	paymentGroup.Post("/webhook/stripe", controllers.StripeWebhook)

	couponGroup := app.Group("/coupon")
	couponGroup.Post("/validate", middleware.JWTMiddleware, controllers.ValidateCoupon)
	couponGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), controllers.CreateCoupon)
	couponGroup.Get("/list", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), controllers.GetCoupons)
	couponGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), controllers.UpdateCoupon)
	couponGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"), controllers.DeleteCoupon)

	stripeGroup := app.Group("/stripe")
	stripeGroup.Get("/connect", middleware.JWTMiddleware, controllers.ConnectStripe)
	stripeGroup.Post("/connect/callback", middleware.JWTMiddleware, controllers.StripeOAuthCallback)
	stripeGroup.Get("/connect/status", middleware.JWTMiddleware, controllers.ConnectStatus)
}
