package models

import (
	"gorm.io/gorm"
)

// Instructor is the payout/verification profile behind a teaching user.
// Earnings only ever increase, via the commission split on confirmed payments.
type Instructor struct {
	gorm.Model
	UserID             uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	VerificationStatus string  `json:"verification_status" gorm:"default:'PENDING'"` // PENDING, APPROVED, REJECTED
	Earnings           float64 `json:"earnings" gorm:"default:0"`
	StripeAccountID    string  `json:"stripe_account_id" gorm:"default:''"`
	Bio                string  `json:"bio" gorm:"default:''"`
	IsDeleted          bool    `json:"-" gorm:"default:false"`
	User               User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
