package course

import (
	"gorm.io/gorm"
)

type Quiz struct {
	gorm.Model
	CourseID  uint           `json:"course_id" gorm:"index;not null"`
	Title     string         `json:"title"`
	IsDeleted bool           `json:"-" gorm:"default:false"`
	Questions []QuizQuestion `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint   `json:"quiz_id" gorm:"index;not null"`
	Question      string `json:"question" gorm:"type:text"`
	Options       string `json:"options" gorm:"type:text"` // options joined by "|"
	CorrectAnswer int    `json:"correct_answer"`           // index into Options
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
}

type QuizResult struct {
	gorm.Model
	UserID   uint    `json:"user_id" gorm:"index;not null"`
	QuizID   uint    `json:"quiz_id" gorm:"index;not null"`
	CourseID uint    `json:"course_id" gorm:"index;not null"`
	Score    float64 `json:"score"` // percentage 0-100
}
