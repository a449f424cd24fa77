package models

import (
	"time"

	"gorm.io/gorm"
)

// BlogPost is a generated weekly newsletter article tied to a course.
type BlogPost struct {
	gorm.Model
	Title             string     `json:"title"`
	Slug              string     `json:"slug" gorm:"index"`
	Content           string     `json:"content" gorm:"type:text"` // markdown
	Excerpt           string     `json:"excerpt"`
	CoverImage        string     `json:"cover_image"`
	CourseID          uint       `json:"course_id" gorm:"index"`
	AuthorID          uint       `json:"author_id"`
	Category          string     `json:"category" gorm:"default:'Newsletter'"`
	Status            string     `json:"status" gorm:"default:'PUBLISHED'"`
	Views             int        `json:"views" gorm:"default:0"`
	SentToSubscribers bool       `json:"sent_to_subscribers" gorm:"default:false"`
	EmailSentCount    int        `json:"email_sent_count" gorm:"default:0"`
	PublishedAt       *time.Time `json:"published_at"`
	IsDeleted         bool       `json:"-" gorm:"default:false"`
}

type EmailSubscription struct {
	gorm.Model
	UserID           *uint  `json:"user_id" gorm:"index"` // set for registered users
	Email            string `json:"email" gorm:"unique;not null"`
	Subscribed       bool   `json:"subscribed" gorm:"default:true"`
	UnsubscribeToken string `json:"-" gorm:"uniqueIndex;not null"`
	IsDeleted        bool   `json:"-" gorm:"default:false"`
}
