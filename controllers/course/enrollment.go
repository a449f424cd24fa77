package courseController

import (
	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"
	"academy/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// recalcProgress recomputes an enrollment's progress from its completion rows
// and the course's current lesson count, then persists it. Status flips to
// COMPLETED at 100 and back to ACTIVE below it, so new lessons reopen
// finished enrollments on the next recompute.
func recalcProgress(db *gorm.DB, enrollment *courseModels.Enrollment) error {
	var totalLessons int64
	if err := db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = false", enrollment.CourseID).
		Count(&totalLessons).Error; err != nil {
		return err
	}

	var completed int64
	if err := db.Model(&courseModels.LessonCompletion{}).
		Where("enrollment_id = ?", enrollment.ID).
		Count(&completed).Error; err != nil {
		return err
	}

	progress := 0.0
	if totalLessons > 0 {
		progress = 100 * float64(completed) / float64(totalLessons)
	}
	if progress > 100 {
		progress = 100
	}

	updates := map[string]interface{}{"progress": progress}
	if progress >= 100 && totalLessons > 0 {
		updates["status"] = "COMPLETED"
		if enrollment.CompletedAt == nil {
			now := time.Now()
			updates["completed_at"] = now
			enrollment.CompletedAt = &now
		}
	} else {
		updates["status"] = "ACTIVE"
		updates["completed_at"] = nil
		enrollment.CompletedAt = nil
	}

	if err := db.Model(enrollment).Updates(updates).Error; err != nil {
		return err
	}

	enrollment.Progress = progress
	enrollment.Status = updates["status"].(string)
	return nil
}

// EnrollInCourse grants free enrollment. Paid courses go through checkout.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND status = ? AND is_deleted = false", courseID, "PUBLISHED").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Price > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Premium course. Use checkout to enroll!", nil)
	}

	var existing courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, course.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: course.ID,
		Progress: 0,
		Status:   "ACTIVE",
	}
	if err := db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	var user struct {
		Email string
		Name  string
	}
	if err := db.Table("users").Where("id = ?", userID).Select("email, name").Scan(&user).Error; err == nil {
		utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

// MyCourses lists the caller's enrollments with progress recomputed, so
// lessons added since the last visit show up in the numbers immediately.
func MyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	err := db.Preload("Course").
		Where("user_id = ? AND is_deleted = false", userID).
		Order("created_at desc").
		Find(&enrollments).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]fiber.Map, 0, len(enrollments))
	for i := range enrollments {
		if err := recalcProgress(db, &enrollments[i]); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
		}
		result = append(result, fiber.Map{
			"enrollment": enrollments[i],
			"course":     enrollments[i].Course,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", result)
}

// CompleteLesson marks a lesson done for the caller's enrollment. Completing
// the same lesson twice is a no-op thanks to the unique completion index.
func CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID, err := c.ParamsInt("id")
	if err != nil || lessonID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
	}

	db := database.Database.Db

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = false", lessonID).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, lesson.CourseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var existing courseModels.LessonCompletion
	err = db.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lesson.ID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		completion := courseModels.LessonCompletion{
			EnrollmentID: enrollment.ID,
			LessonID:     lesson.ID,
		}
		if err := db.Create(&completion).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record completion!", nil)
		}
	} else if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record completion!", nil)
	}

	if err := recalcProgress(db, &enrollment); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}

	if enrollment.Status == "COMPLETED" {
		issueCertificateIfEligible(db, userID, lesson.CourseID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete!", fiber.Map{
		"progress": enrollment.Progress,
		"status":   enrollment.Status,
	})
}

// UpdateProgress recomputes the caller's progress for a course. Progress is
// never taken from the request body; it is always derived from completion
// rows, so this endpoint just forces a fresh derivation.
func UpdateProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	if err := recalcProgress(db, &enrollment); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}

	if enrollment.Status == "COMPLETED" {
		issueCertificateIfEligible(db, userID, uint(courseID))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", fiber.Map{
		"progress":     enrollment.Progress,
		"status":       enrollment.Status,
		"completed_at": enrollment.CompletedAt,
	})
}

// LessonProgress returns the caller's per-lesson completion map for a course.
func LessonProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	if err := recalcProgress(db, &enrollment); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}

	var completions []courseModels.LessonCompletion
	if err := db.Where("enrollment_id = ?", enrollment.ID).Find(&completions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	completedLessons := make([]uint, 0, len(completions))
	for _, completion := range completions {
		completedLessons = append(completedLessons, completion.LessonID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progress":          enrollment.Progress,
		"status":            enrollment.Status,
		"completed_at":      enrollment.CompletedAt,
		"completed_lessons": completedLessons,
	})
}
