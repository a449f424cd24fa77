package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	UserID     uint   `json:"user_id" gorm:"index:idx_review_user_course,unique;not null"`
	CourseID   uint   `json:"course_id" gorm:"index:idx_review_user_course,unique;not null"`
	Rating     int    `json:"rating" gorm:"not null"` // 1-5 stars
	ReviewText string `json:"review_text" gorm:"type:text"`
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}
