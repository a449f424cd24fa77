package paymentController

import (
	"academy/database"
	"academy/middleware"
	commerceModels "academy/models/commerce"
	courseModels "academy/models/course"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	errCouponNotFound     = errors.New("Invalid coupon code!")
	errCouponInactive     = errors.New("This coupon is no longer active!")
	errCouponNotStarted   = errors.New("This coupon is not valid yet!")
	errCouponExpired      = errors.New("This coupon has expired!")
	errCouponExhausted    = errors.New("This coupon has reached its usage limit!")
	errCouponNotForCourse = errors.New("This coupon is not valid for this course!")
	errCouponAlreadyUsed  = errors.New("You have already used this coupon for this course!")
)

// validateCouponForCourse runs the full validity chain for one user, coupon
// and course. Check order matters: each failure message reveals only the
// first unmet condition.
func validateCouponForCourse(db *gorm.DB, code string, userID, courseID uint) (*commerceModels.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var coupon commerceModels.Coupon
	if err := db.Preload("Courses").Where("code = ? AND is_deleted = false", code).First(&coupon).Error; err != nil {
		return nil, errCouponNotFound
	}

	if !coupon.IsActive {
		return nil, errCouponInactive
	}

	now := time.Now()
	if now.Before(coupon.ValidFrom) {
		return nil, errCouponNotStarted
	}
	if now.After(coupon.ValidUntil) {
		return nil, errCouponExpired
	}

	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return nil, errCouponExhausted
	}

	// An empty allow-list means the coupon applies to every course
	if len(coupon.Courses) > 0 {
		applicable := false
		for _, cc := range coupon.Courses {
			if cc.CourseID == courseID {
				applicable = true
				break
			}
		}
		if !applicable {
			return nil, errCouponNotForCourse
		}
	}

	var usage commerceModels.CouponUsage
	err := db.Where("coupon_id = ? AND user_id = ? AND course_id = ?", coupon.ID, userID, courseID).First(&usage).Error
	if err == nil {
		return nil, errCouponAlreadyUsed
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return &coupon, nil
}

// applyDiscount computes the discount amount for a price. The result never
// exceeds the price, so fixed coupons on cheap courses floor at free.
func applyDiscount(coupon *commerceModels.Coupon, price float64) float64 {
	var discount float64
	switch coupon.DiscountType {
	case commerceModels.DiscountPercentage:
		discount = price * coupon.DiscountValue / 100
	case commerceModels.DiscountFixed:
		discount = coupon.DiscountValue
	}
	if discount > price {
		discount = price
	}
	return math.Round(discount*100) / 100
}

// consumeCoupon burns one use atomically: the guarded UPDATE only increments
// while the cap still holds, and the usage row's unique index stops the same
// user redeeming twice for the same course. Either failure rolls both back.
func consumeCoupon(db *gorm.DB, coupon *commerceModels.Coupon, userID, courseID uint, discountAmount float64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&commerceModels.Coupon{}).Where("id = ? AND is_active = true", coupon.ID)
		if coupon.UsageLimit != nil {
			query = query.Where("usage_limit IS NULL OR used_count < usage_limit")
		}
		result := query.Update("used_count", gorm.Expr("used_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errCouponExhausted
		}

		usage := commerceModels.CouponUsage{
			CouponID:       coupon.ID,
			UserID:         userID,
			CourseID:       courseID,
			DiscountAmount: discountAmount,
		}
		if err := tx.Create(&usage).Error; err != nil {
			return errCouponAlreadyUsed
		}
		return nil
	})
}

// ValidateCoupon previews a coupon against a course without consuming it.
func ValidateCoupon(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Code     string `json:"code"`
		CourseID uint   `json:"course_id"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Code == "" || reqData.CourseID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Coupon code and course id are required!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", reqData.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	coupon, err := validateCouponForCourse(db, reqData.Code, userID, course.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	}

	discount := applyDiscount(coupon, course.Price)
	finalPrice := math.Round((course.Price-discount)*100) / 100

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon is valid!", fiber.Map{
		"code":            coupon.Code,
		"discount_type":   coupon.DiscountType,
		"discount_value":  coupon.DiscountValue,
		"original_price":  course.Price,
		"discount_amount": discount,
		"final_price":     finalPrice,
	})
}

// ---- Admin coupon management ----

func CreateCoupon(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Code          string    `json:"code"`
		DiscountType  string    `json:"discount_type"`
		DiscountValue float64   `json:"discount_value"`
		ValidFrom     time.Time `json:"valid_from"`
		ValidUntil    time.Time `json:"valid_until"`
		UsageLimit    *int      `json:"usage_limit"`
		CourseIDs     []uint    `json:"course_ids"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	reqData.Code = strings.ToUpper(strings.TrimSpace(reqData.Code))
	reqData.DiscountType = strings.ToUpper(reqData.DiscountType)

	if len(reqData.Code) < 3 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Coupon code must be at least 3 characters!", nil)
	}
	if reqData.DiscountType != commerceModels.DiscountPercentage && reqData.DiscountType != commerceModels.DiscountFixed {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Discount type must be PERCENTAGE or FIXED!", nil)
	}
	if reqData.DiscountValue <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Discount value must be positive!", nil)
	}
	if reqData.DiscountType == commerceModels.DiscountPercentage && reqData.DiscountValue > 100 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Percentage discount cannot exceed 100!", nil)
	}
	if !reqData.ValidUntil.After(reqData.ValidFrom) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Validity window is invalid!", nil)
	}
	if reqData.UsageLimit != nil && *reqData.UsageLimit < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Usage limit must be at least 1!", nil)
	}

	db := database.Database.Db

	if err := db.Where("code = ? AND is_deleted = false", reqData.Code).First(&commerceModels.Coupon{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Coupon code already exists!", nil)
	}

	coupon := commerceModels.Coupon{
		Code:          reqData.Code,
		DiscountType:  reqData.DiscountType,
		DiscountValue: reqData.DiscountValue,
		ValidFrom:     reqData.ValidFrom,
		ValidUntil:    reqData.ValidUntil,
		UsageLimit:    reqData.UsageLimit,
		IsActive:      true,
		CreatedBy:     userID,
	}
	for _, courseID := range reqData.CourseIDs {
		coupon.Courses = append(coupon.Courses, commerceModels.CouponCourse{CourseID: courseID})
	}

	if err := db.Create(&coupon).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Coupon created successfully!", coupon)
}

func GetCoupons(c *fiber.Ctx) error {
	var coupons []commerceModels.Coupon
	err := database.Database.Db.Preload("Courses").
		Where("is_deleted = false").
		Order("created_at desc").
		Find(&coupons).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch coupons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupons fetched successfully!", coupons)
}

func UpdateCoupon(c *fiber.Ctx) error {
	couponID, err := c.ParamsInt("id")
	if err != nil || couponID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid coupon id!", nil)
	}

	db := database.Database.Db

	var coupon commerceModels.Coupon
	if err := db.Where("id = ? AND is_deleted = false", couponID).First(&coupon).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
	}

	reqData := new(struct {
		IsActive   *bool      `json:"is_active"`
		ValidUntil *time.Time `json:"valid_until"`
		UsageLimit *int       `json:"usage_limit"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}
	if reqData.ValidUntil != nil {
		updates["valid_until"] = *reqData.ValidUntil
	}
	if reqData.UsageLimit != nil {
		if *reqData.UsageLimit < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Usage limit must be at least 1!", nil)
		}
		updates["usage_limit"] = *reqData.UsageLimit
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No valid fields to update!", nil)
	}

	if err := db.Model(&coupon).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon updated successfully!", coupon)
}

func DeleteCoupon(c *fiber.Ctx) error {
	couponID, err := c.ParamsInt("id")
	if err != nil || couponID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid coupon id!", nil)
	}

	db := database.Database.Db

	var coupon commerceModels.Coupon
	if err := db.Where("id = ? AND is_deleted = false", couponID).First(&coupon).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
	}

	if err := db.Model(&coupon).Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon deleted successfully!", nil)
}
