package middleware

import (
	"academy/database"
	"academy/models"
	"academy/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireRole returns a middleware that loads the authenticated user and
// checks their current role against the allowed set. The DB is the source of
// truth, not the token claim, so demotions take effect immediately.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		var user models.User
		err := database.Database.Db.
			Where("id = ? AND is_deleted = false AND is_active = true", userID).
			First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
			}
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
		}

		for _, role := range roles {
			if user.Role == role {
				c.Locals("role", user.Role)
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}

// CanManageCourse reports whether the user may modify the given course:
// admins always, instructors only when their profile owns it.
func CanManageCourse(db *gorm.DB, userID uint, role string, courseID uint) bool {
	if role == "ADMIN" {
		return true
	}

	var instructor models.Instructor
	if err := db.Where("user_id = ? AND is_deleted = false", userID).First(&instructor).Error; err != nil {
		return false
	}

	var crs course.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&crs).Error; err != nil {
		return false
	}

	return crs.InstructorID == instructor.ID
}

// IsEnrolled reports whether the user has a live enrollment in the course.
func IsEnrolled(db *gorm.DB, userID, courseID uint) bool {
	var enrollment course.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).
		First(&enrollment).Error
	return err == nil
}
