package paymentController

import (
	"academy/models"
	commerceModels "academy/models/commerce"
	courseModels "academy/models/course"
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPaidCheckout(t *testing.T, db *gorm.DB, amount float64) (commerceModels.Payment, models.Instructor) {
	t.Helper()

	user := models.User{Name: "Buyer", Email: "buyer@example.com", Password: "x", Role: "STUDENT", IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	teacher := models.User{Name: "Teacher", Email: "teacher@example.com", Password: "x", Role: "INSTRUCTOR", IsActive: true}
	require.NoError(t, db.Create(&teacher).Error)

	instructor := models.Instructor{UserID: teacher.ID, VerificationStatus: "APPROVED"}
	require.NoError(t, db.Create(&instructor).Error)

	course := courseModels.Course{InstructorID: instructor.ID, Title: "Go Deep", Status: "PUBLISHED", Price: amount}
	require.NoError(t, db.Create(&course).Error)

	payment := commerceModels.Payment{
		UserID:         user.ID,
		CourseID:       course.ID,
		Amount:         amount,
		OriginalAmount: amount,
		SessionID:      "cs_test_123",
		PaymentStatus:  commerceModels.PaymentPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	return payment, instructor
}

func TestConfirmPaymentEnrollsAndCreditsInstructor(t *testing.T) {
	db := setupTestDb(t)

	payment, instructor := seedPaidCheckout(t, db, 100)

	require.NoError(t, confirmPayment(db, &payment))
	assert.Equal(t, commerceModels.PaymentPaid, payment.PaymentStatus)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", payment.UserID, payment.CourseID).First(&enrollment).Error)
	assert.Equal(t, "ACTIVE", enrollment.Status)

	// 15% platform commission on a $100 sale leaves $85 for the instructor
	var fresh models.Instructor
	require.NoError(t, db.First(&fresh, instructor.ID).Error)
	assert.InDelta(t, 85.0, fresh.Earnings, 0.001)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	db := setupTestDb(t)

	payment, instructor := seedPaidCheckout(t, db, 100)

	require.NoError(t, confirmPayment(db, &payment))
	require.NoError(t, confirmPayment(db, &payment))
	require.NoError(t, confirmPayment(db, &payment))

	var enrollments int64
	db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", payment.UserID, payment.CourseID).
		Count(&enrollments)
	assert.EqualValues(t, 1, enrollments)

	// Replays must not credit the instructor again
	var fresh models.Instructor
	require.NoError(t, db.First(&fresh, instructor.ID).Error)
	assert.InDelta(t, 85.0, fresh.Earnings, 0.001)
}

func TestConfirmPaymentConcurrentReplays(t *testing.T) {
	db := setupTestDb(t)

	payment, instructor := seedPaidCheckout(t, db, 60)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := payment
			_ = confirmPayment(db, &p)
		}()
	}
	wg.Wait()

	var enrollments int64
	db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", payment.UserID, payment.CourseID).
		Count(&enrollments)
	assert.EqualValues(t, 1, enrollments)

	var fresh models.Instructor
	require.NoError(t, db.First(&fresh, instructor.ID).Error)
	assert.InDelta(t, 51.0, fresh.Earnings, 0.001)
}

func TestCreateCheckoutFreePathIgnoresInvalidCoupon(t *testing.T) {
	db := setupTestDb(t)

	user := models.User{Name: "Student", Email: "free@example.com", Password: "x", Role: "STUDENT", IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{InstructorID: 1, Title: "Free Intro", Status: "PUBLISHED", Price: 0}
	require.NoError(t, db.Create(&course).Error)

	app := fiber.New()
	app.Post("/payment/checkout", func(c *fiber.Ctx) error {
		c.Locals("userId", user.ID)
		c.Locals("role", "STUDENT")
		return c.Next()
	}, CreateCheckout)

	body, _ := json.Marshal(fiber.Map{"course_id": course.ID, "coupon_code": "BOGUS"})
	req := httptest.NewRequest("POST", "/payment/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Free enrollment goes through at full (zero) price despite the bad code
	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error)

	var payment commerceModels.Payment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&payment).Error)
	assert.Equal(t, commerceModels.PaymentPaid, payment.PaymentStatus)
	assert.True(t, strings.HasPrefix(payment.SessionID, "free-"))
	assert.Empty(t, payment.CouponCode)
}

func TestConfirmPaymentSkipsExistingEnrollment(t *testing.T) {
	db := setupTestDb(t)

	payment, _ := seedPaidCheckout(t, db, 40)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID:   payment.UserID,
		CourseID: payment.CourseID,
		Status:   "ACTIVE",
	}).Error)

	require.NoError(t, confirmPayment(db, &payment))

	var enrollments int64
	db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", payment.UserID, payment.CourseID).
		Count(&enrollments)
	assert.EqualValues(t, 1, enrollments)
}
