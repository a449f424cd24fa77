package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's access to a course and their progress through it.
// Progress is always derived from LessonCompletion rows against the lesson
// count; never written from client input directly.
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"index:idx_enroll_user_course,unique;not null"`
	CourseID    uint       `json:"course_id" gorm:"index:idx_enroll_user_course,unique;not null"`
	Progress    float64    `json:"progress" gorm:"default:0"`        // 0-100
	Status      string     `json:"status" gorm:"default:'ACTIVE'"`   // ACTIVE, COMPLETED
	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `json:"-" gorm:"default:false"`
	Course      Course     `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

// LessonCompletion is the completed-lessons set for an enrollment.
// The unique index makes repeat completions of the same lesson a no-op.
type LessonCompletion struct {
	gorm.Model
	EnrollmentID uint `json:"enrollment_id" gorm:"index:idx_completion_enroll_lesson,unique;not null"`
	LessonID     uint `json:"lesson_id" gorm:"index:idx_completion_enroll_lesson,unique;not null"`
}
