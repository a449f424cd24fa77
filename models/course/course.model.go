package course

import "gorm.io/gorm"

// Course represents a marketplace course owned by an instructor.
// New courses are forced to PENDING and go live only through admin moderation.
type Course struct {
	gorm.Model
	InstructorID    uint    `json:"instructor_id" gorm:"index;not null"`
	Title           string  `json:"title"`
	Description     string  `json:"description" gorm:"type:text"`
	Category        string  `json:"category" gorm:"index"`
	Price           float64 `json:"price" gorm:"default:0"`
	Thumbnail       string  `json:"thumbnail"`
	Status          string  `json:"status" gorm:"default:'DRAFT'"` // DRAFT, PENDING, PUBLISHED, ARCHIVED, REJECTED
	PreviewVideo    string  `json:"preview_video"`
	DifficultyLevel string  `json:"difficulty_level" gorm:"default:'Beginner'"` // Beginner, Intermediate, Advanced
	Language        string  `json:"language" gorm:"default:'English'"`
	IsFeatured      bool    `json:"is_featured" gorm:"default:false"`
	IsDeleted       bool    `json:"-" gorm:"default:false"`
}

// Section groups lessons inside a course
type Section struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}

type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	SectionID   *uint  `json:"section_id" gorm:"index"` // standalone lessons allowed
	Title       string `json:"title"`
	Type        string `json:"type" gorm:"default:'VIDEO'"` // VIDEO, PDF, TEXT, LIVE_CLASS
	ContentURL  string `json:"content_url"`
	ContentText string `json:"content_text" gorm:"type:text"`
	Description string `json:"description"`
	Duration    int    `json:"duration" gorm:"default:0"` // minutes
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsPreview   bool   `json:"is_preview" gorm:"default:false"` // viewable without enrollment
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
