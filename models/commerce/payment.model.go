package commerce

import (
	"gorm.io/gorm"
)

const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
)

// Payment mirrors one checkout session. Status flips to PAID exactly once;
// the confirmation path guards on the previous status so replayed webhooks
// and repeated polls cannot enroll or credit twice.
type Payment struct {
	gorm.Model
	UserID         uint    `json:"user_id" gorm:"index;not null"`
	CourseID       uint    `json:"course_id" gorm:"index;not null"`
	Amount         float64 `json:"amount"`
	OriginalAmount float64 `json:"original_amount"`
	DiscountAmount float64 `json:"discount_amount" gorm:"default:0"`
	CouponCode     string  `json:"coupon_code"`
	SessionID      string  `json:"session_id" gorm:"uniqueIndex;not null"`
	PaymentStatus  string  `json:"payment_status" gorm:"default:'PENDING'"`
	IsDeleted      bool    `json:"-" gorm:"default:false"`
}
