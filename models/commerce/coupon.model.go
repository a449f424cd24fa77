package commerce

import (
	"time"

	"gorm.io/gorm"
)

const (
	DiscountPercentage = "PERCENTAGE"
	DiscountFixed      = "FIXED"
)

// Coupon is a discount code with a validity window, an optional usage cap and
// an optional course allow-list (no CouponCourse rows = valid for all courses).
type Coupon struct {
	gorm.Model
	Code          string         `json:"code" gorm:"uniqueIndex;not null"` // stored upper-case
	DiscountType  string         `json:"discount_type" gorm:"not null"`    // PERCENTAGE, FIXED
	DiscountValue float64        `json:"discount_value" gorm:"not null"`
	ValidFrom     time.Time      `json:"valid_from"`
	ValidUntil    time.Time      `json:"valid_until"`
	UsageLimit    *int           `json:"usage_limit"` // nil = unlimited
	UsedCount     int            `json:"used_count" gorm:"default:0"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	CreatedBy     uint           `json:"created_by"`
	IsDeleted     bool           `json:"-" gorm:"default:false"`
	Courses       []CouponCourse `json:"applicable_courses" gorm:"foreignKey:CouponID;constraint:OnDelete:CASCADE"`
}

type CouponCourse struct {
	gorm.Model
	CouponID uint `json:"coupon_id" gorm:"index:idx_coupon_course,unique;not null"`
	CourseID uint `json:"course_id" gorm:"index:idx_coupon_course,unique;not null"`
}

// CouponUsage records one redemption; the unique index enforces
// one use per user per course.
type CouponUsage struct {
	gorm.Model
	CouponID       uint    `json:"coupon_id" gorm:"index:idx_usage_coupon_user_course,unique;not null"`
	UserID         uint    `json:"user_id" gorm:"index:idx_usage_coupon_user_course,unique;not null"`
	CourseID       uint    `json:"course_id" gorm:"index:idx_usage_coupon_user_course,unique;not null"`
	DiscountAmount float64 `json:"discount_amount"`
}
