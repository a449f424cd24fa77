package paymentController

import (
	"academy/config"
	"academy/database"
	"academy/middleware"
	"academy/models"
	commerceModels "academy/models/commerce"
	courseModels "academy/models/course"
	"academy/utils"
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCheckout starts a purchase. Free courses (price zero or fully
// discounted) enroll immediately under a synthetic session id; paid courses
// get a hosted Stripe session, split with the instructor's connected account
// when one is linked.
func CreateCheckout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		CourseID   uint   `json:"course_id"`
		CouponCode string `json:"coupon_code"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.CourseID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course id is required!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND status = ? AND is_deleted = false", reqData.CourseID, "PUBLISHED").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, course.ID).First(&enrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}

	originalAmount := course.Price
	amount := originalAmount
	discountAmount := 0.0

	// Coupons are best-effort at checkout: an invalid code falls back to
	// full price instead of blocking the purchase.
	var coupon *commerceModels.Coupon
	if reqData.CouponCode != "" {
		validated, err := validateCouponForCourse(db, reqData.CouponCode, userID, course.ID)
		if err != nil {
			log.Printf("Coupon %q not applied for user %d: %v", reqData.CouponCode, userID, err)
		} else {
			coupon = validated
			discountAmount = applyDiscount(coupon, originalAmount)
			amount = math.Round((originalAmount-discountAmount)*100) / 100
		}
	}

	// Zero due: enroll right away, no Stripe round-trip
	if amount <= 0 {
		sessionID := "free-" + uuid.NewString()

		err := db.Transaction(func(tx *gorm.DB) error {
			payment := commerceModels.Payment{
				UserID:         userID,
				CourseID:       course.ID,
				Amount:         0,
				OriginalAmount: originalAmount,
				DiscountAmount: discountAmount,
				CouponCode:     couponCode(coupon),
				SessionID:      sessionID,
				PaymentStatus:  commerceModels.PaymentPaid,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
			return tx.Create(&courseModels.Enrollment{
				UserID:   userID,
				CourseID: course.ID,
				Status:   "ACTIVE",
			}).Error
		})
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
		}

		if coupon != nil {
			if err := consumeCoupon(db, coupon, userID, course.ID, discountAmount); err != nil {
				log.Printf("Coupon %s consumption failed after free enrollment: %v", coupon.Code, err)
			}
		}

		sendEnrollmentMail(db, userID, course.Title)

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled successfully!", fiber.Map{
			"session_id":   sessionID,
			"checkout_url": "",
			"amount":       0,
			"free":         true,
		})
	}

	// The discount is reserved before the session opens so the cap cannot
	// be oversold while sessions are pending. Losing the race degrades to
	// full price.
	if coupon != nil {
		if err := consumeCoupon(db, coupon, userID, course.ID, discountAmount); err != nil {
			log.Printf("Coupon %s consumption lost for user %d: %v", coupon.Code, userID, err)
			coupon = nil
			discountAmount = 0
			amount = originalAmount
		}
	}

	// Revenue split when the instructor has linked a Stripe account
	destination := ""
	applicationFee := 0.0
	var instructor models.Instructor
	if err := db.Where("id = ? AND is_deleted = false", course.InstructorID).First(&instructor).Error; err == nil {
		if instructor.StripeAccountID != "" {
			destination = instructor.StripeAccountID
			applicationFee = math.Round(amount*config.AppConfig.AdminCommission*100) / 100
		}
	}

	stripe := utils.NewStripeClient()
	session, err := stripe.CreateCheckoutSession(utils.CheckoutSessionRequest{
		Amount:      amount,
		Currency:    "usd",
		ProductName: course.Title,
		SuccessURL:  config.AppConfig.FrontendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   config.AppConfig.FrontendURL + "/payment/cancel",
		Metadata: map[string]string{
			"user_id":         strconv.FormatUint(uint64(userID), 10),
			"course_id":       strconv.FormatUint(uint64(course.ID), 10),
			"coupon_code":     couponCode(coupon),
			"original_amount": strconv.FormatFloat(originalAmount, 'f', 2, 64),
			"discount_amount": strconv.FormatFloat(discountAmount, 'f', 2, 64),
		},
		DestinationAccount: destination,
		ApplicationFee:     applicationFee,
	})
	if err != nil {
		log.Printf("Stripe checkout creation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create checkout session!", nil)
	}

	payment := commerceModels.Payment{
		UserID:         userID,
		CourseID:       course.ID,
		Amount:         amount,
		OriginalAmount: originalAmount,
		DiscountAmount: discountAmount,
		CouponCode:     couponCode(coupon),
		SessionID:      session.SessionID,
		PaymentStatus:  commerceModels.PaymentPending,
	}
	if err := db.Create(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", fiber.Map{
		"session_id":   session.SessionID,
		"checkout_url": session.URL,
		"amount":       amount,
		"free":         false,
	})
}

func couponCode(coupon *commerceModels.Coupon) string {
	if coupon == nil {
		return ""
	}
	return coupon.Code
}

func sendEnrollmentMail(db *gorm.DB, userID uint, courseTitle string) {
	var user struct {
		Email string
		Name  string
	}
	if err := db.Table("users").Select("email, name").Where("id = ?", userID).Scan(&user).Error; err == nil {
		utils.SendEnrollmentEmail(user.Email, user.Name, courseTitle)
	}
}

// confirmPayment finalizes a paid session exactly once. The guarded status
// flip is the idempotency gate: only the request that wins it creates the
// enrollment and credits the instructor, so replays and concurrent polls
// settle on the first outcome.
func confirmPayment(db *gorm.DB, payment *commerceModels.Payment) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&commerceModels.Payment{}).
			Where("id = ? AND payment_status = ?", payment.ID, commerceModels.PaymentPending).
			Update("payment_status", commerceModels.PaymentPaid)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Someone else already confirmed it
			payment.PaymentStatus = commerceModels.PaymentPaid
			return nil
		}
		payment.PaymentStatus = commerceModels.PaymentPaid

		var existing courseModels.Enrollment
		err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = false", payment.UserID, payment.CourseID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := tx.Create(&courseModels.Enrollment{
				UserID:   payment.UserID,
				CourseID: payment.CourseID,
				Status:   "ACTIVE",
			}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var course courseModels.Course
		if err := tx.Where("id = ?", payment.CourseID).First(&course).Error; err != nil {
			return err
		}

		earnings := math.Round(payment.Amount*(1-config.AppConfig.AdminCommission)*100) / 100
		result = tx.Model(&models.Instructor{}).
			Where("id = ?", course.InstructorID).
			Update("earnings", gorm.Expr("earnings + ?", earnings))
		return result.Error
	})
}

// CheckPaymentStatus polls a session's state and finalizes it when Stripe
// reports it paid. Synthetic free sessions short-circuit.
func CheckPaymentStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Session id is required!", nil)
	}

	db := database.Database.Db

	var payment commerceModels.Payment
	if err := db.Where("session_id = ? AND user_id = ? AND is_deleted = false", sessionID, userID).First(&payment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}

	if len(sessionID) > 5 && sessionID[:5] == "free-" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment status fetched!", fiber.Map{
			"session_id":     payment.SessionID,
			"payment_status": payment.PaymentStatus,
		})
	}

	if payment.PaymentStatus == commerceModels.PaymentPending {
		stripe := utils.NewStripeClient()
		status, err := stripe.GetCheckoutStatus(sessionID)
		if err != nil {
			log.Printf("Stripe status check failed for %s: %v", sessionID, err)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to check payment status!", nil)
		}

		if status.PaymentStatus == "paid" || status.PaymentStatus == "no_payment_required" {
			if err := confirmPayment(db, &payment); err != nil {
				log.Printf("Payment confirmation failed for %s: %v", sessionID, err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to confirm payment!", nil)
			}

			var course courseModels.Course
			if err := db.Select("id, title").Where("id = ?", payment.CourseID).First(&course).Error; err == nil {
				sendEnrollmentMail(db, payment.UserID, course.Title)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment status fetched!", fiber.Map{
		"session_id":     payment.SessionID,
		"payment_status": payment.PaymentStatus,
	})
}

// StripeWebhook handles checkout.session.completed events. The signature is
// verified before anything else is parsed out of the body.
func StripeWebhook(c *fiber.Ctx) error {
	event, err := utils.VerifyWebhook(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("Webhook verification failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook signature!", nil)
	}

	if event.Type != "checkout.session.completed" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored!", nil)
	}

	db := database.Database.Db

	var payment commerceModels.Payment
	if err := db.Where("session_id = ? AND is_deleted = false", event.Data.Object.ID).First(&payment).Error; err != nil {
		// Unknown session: acknowledge so Stripe stops retrying
		log.Printf("Webhook for unknown session %s", event.Data.Object.ID)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Unknown session acknowledged!", nil)
	}

	if event.Data.Object.PaymentStatus == "paid" || event.Data.Object.PaymentStatus == "no_payment_required" {
		if err := confirmPayment(db, &payment); err != nil {
			log.Printf("Webhook confirmation failed for %s: %v", payment.SessionID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to confirm payment!", nil)
		}

		var course courseModels.Course
		if err := db.Select("id, title").Where("id = ?", payment.CourseID).First(&course).Error; err == nil {
			sendEnrollmentMail(db, payment.UserID, course.Title)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook processed!", nil)
}

// MyPayments lists the caller's payment history.
func MyPayments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var payments []commerceModels.Payment
	err := database.Database.Db.
		Where("user_id = ? AND is_deleted = false", userID).
		Order("created_at desc").
		Find(&payments).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", payments)
}

// ---- Stripe Connect onboarding ----

// ConnectStripe hands the instructor the OAuth URL that links their Stripe
// account for revenue splitting.
func ConnectStripe(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var instructor models.Instructor
	if err := db.Where("user_id = ? AND verification_status = ? AND is_deleted = false", userID, "APPROVED").First(&instructor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only approved instructors can connect Stripe!", nil)
	}

	stripe := utils.NewStripeClient()
	state := fmt.Sprintf("instructor-%d", instructor.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stripe connect URL generated!", fiber.Map{
		"url": stripe.ConnectOAuthURL(state),
	})
}

// ConnectStatus reports whether the instructor has a linked Stripe account.
func ConnectStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var instructor models.Instructor
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = false", userID).First(&instructor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Instructor profile not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stripe connect status fetched!", fiber.Map{
		"connected":         instructor.StripeAccountID != "",
		"stripe_account_id": instructor.StripeAccountID,
		"earnings":          instructor.Earnings,
	})
}

// StripeOAuthCallback completes Connect onboarding with the code Stripe
// redirects back with.
func StripeOAuthCallback(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Code string `json:"code"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Code == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Authorization code is required!", nil)
	}

	db := database.Database.Db

	var instructor models.Instructor
	if err := db.Where("user_id = ? AND is_deleted = false", userID).First(&instructor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Instructor profile not found!", nil)
	}

	stripe := utils.NewStripeClient()
	accountID, err := stripe.ExchangeOAuthCode(reqData.Code)
	if err != nil {
		log.Printf("Stripe OAuth exchange failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to link Stripe account!", nil)
	}

	if err := db.Model(&instructor).Update("stripe_account_id", accountID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save Stripe account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stripe account linked successfully!", fiber.Map{
		"stripe_account_id": accountID,
	})
}
