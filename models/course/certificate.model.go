package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued at most once per (user, course); the unique index is
// what makes concurrent issuance attempts collapse to a single row.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"index:idx_cert_user_course,unique;not null"`
	CourseID          uint      `json:"course_id" gorm:"index:idx_cert_user_course,unique;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"uniqueIndex;not null"`
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `json:"-" gorm:"default:false"`
}
