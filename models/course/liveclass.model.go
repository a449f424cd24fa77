package course

import (
	"time"

	"gorm.io/gorm"
)

type LiveClass struct {
	gorm.Model
	CourseID     uint      `json:"course_id" gorm:"index;not null"`
	SectionID    *uint     `json:"section_id" gorm:"index"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Duration     int       `json:"duration"` // minutes
	MeetingURL   string    `json:"meeting_url"`
	Status       string    `json:"status" gorm:"default:'SCHEDULED'"` // SCHEDULED, LIVE, COMPLETED, CANCELLED
	MaxAttendees *int      `json:"max_attendees"`
	IsDeleted    bool      `json:"-" gorm:"default:false"`
}
