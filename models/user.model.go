package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `json:"name" gorm:"default:''"`
	Email        string `json:"email" gorm:"unique;not null"`
	Role         string `json:"role" gorm:"default:'STUDENT'"` // STUDENT, INSTRUCTOR, ADMIN
	Password     string `json:"-" gorm:"not null"`
	ProfileImage string `json:"profile_image" gorm:"default:''"`
	Bio          string `json:"bio" gorm:"default:''"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
	IsDeleted    bool   `json:"-" gorm:"default:false"`
}
