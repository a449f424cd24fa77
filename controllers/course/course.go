package courseController

import (
	"academy/database"
	"academy/middleware"
	"academy/models"
	courseModels "academy/models/course"
	"academy/utils"
	courseValidator "academy/validators/course"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// getOrCreateInstructorProfile resolves the instructor profile behind a
// teaching user, creating an approved one on first course creation for
// admins and legacy accounts that never applied.
func getOrCreateInstructorProfile(db *gorm.DB, userID uint) (*models.Instructor, error) {
	var instructor models.Instructor
	err := db.Where("user_id = ? AND is_deleted = false", userID).First(&instructor).Error
	if err == nil {
		return &instructor, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	instructor = models.Instructor{
		UserID:             userID,
		VerificationStatus: "APPROVED",
	}
	if err := db.Create(&instructor).Error; err != nil {
		return nil, err
	}
	log.Printf("Auto-created instructor profile for user %d", userID)
	return &instructor, nil
}

func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)

	db := database.Database.Db

	instructor, err := getOrCreateInstructorProfile(db, userID)
	if err != nil {
		log.Printf("Error resolving instructor profile: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	// New courses always await admin moderation
	course := courseModels.Course{
		InstructorID:    instructor.ID,
		Title:           reqData.Title,
		Description:     reqData.Description,
		Category:        reqData.Category,
		Price:           reqData.Price,
		Thumbnail:       reqData.Thumbnail,
		PreviewVideo:    reqData.PreviewVideo,
		DifficultyLevel: reqData.DifficultyLevel,
		Language:        reqData.Language,
		Status:          "PENDING",
	}

	if err := db.Create(&course).Error; err != nil {
		log.Printf("Error saving course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course submitted for moderation!", course)
}

// GetAllCourses lists courses with optional category/search/status filters.
// Non-published courses are only visible to admins and their owners.
func GetAllCourses(c *fiber.Ctx) error {
	db := database.Database.Db

	status := strings.ToUpper(c.Query("status", "PUBLISHED"))
	category := c.Query("category")
	search := c.Query("search")
	instructorID := c.QueryInt("instructor_id", 0)

	query := db.Model(&courseModels.Course{}).Where("courses.is_deleted = false")

	role, _ := c.Locals("role").(string)
	userID, authed := c.Locals("userId").(uint)

	if status == "ALL" || status == "DRAFT" || status == "PENDING" {
		switch {
		case !authed:
			query = query.Where("status = ?", "PUBLISHED")
		case role == "ADMIN":
			if status != "ALL" {
				query = query.Where("status = ?", status)
			}
		default:
			// Instructors may browse their own unpublished courses only
			var instructor models.Instructor
			if err := db.Where("user_id = ? AND is_deleted = false", userID).First(&instructor).Error; err == nil {
				query = query.Where("instructor_id = ?", instructor.ID)
				if status != "ALL" {
					query = query.Where("status = ?", status)
				}
			} else {
				query = query.Where("status = ?", "PUBLISHED")
			}
		}
	} else {
		query = query.Where("status = ?", status)
	}

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if instructorID > 0 {
		query = query.Where("instructor_id = ?", instructorID)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var courses []courseModels.Course
	if err := query.Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var instructorUser *models.User
	var instructor models.Instructor
	if err := db.Where("id = ? AND is_deleted = false", course.InstructorID).First(&instructor).Error; err == nil {
		var user models.User
		if err := db.Where("id = ?", instructor.UserID).First(&user).Error; err == nil {
			user.Password = ""
			instructorUser = &user
		}
	}

	var lessonsCount int64
	db.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = false", course.ID).Count(&lessonsCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":        course,
		"instructor":    instructorUser,
		"lessons_count": lessonsCount,
	})
}

func UpdateCourse(c *fiber.Ctx) error {
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
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	role, _ := c.Locals("role").(string)
	if !middleware.CanManageCourse(db, userID, role, course.ID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to update this course!", nil)
	}

	reqData := new(struct {
		Title           *string  `json:"title"`
		Description     *string  `json:"description"`
		Category        *string  `json:"category"`
		Price           *float64 `json:"price"`
		Thumbnail       *string  `json:"thumbnail"`
		PreviewVideo    *string  `json:"preview_video"`
		DifficultyLevel *string  `json:"difficulty_level"`
		Language        *string  `json:"language"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Category != nil {
		updates["category"] = *reqData.Category
	}
	if reqData.Price != nil {
		if *reqData.Price < 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Price cannot be negative!", nil)
		}
		updates["price"] = *reqData.Price
	}
	if reqData.Thumbnail != nil {
		updates["thumbnail"] = *reqData.Thumbnail
	}
	if reqData.PreviewVideo != nil {
		updates["preview_video"] = *reqData.PreviewVideo
	}
	if reqData.DifficultyLevel != nil {
		updates["difficulty_level"] = *reqData.DifficultyLevel
	}
	if reqData.Language != nil {
		updates["language"] = *reqData.Language
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No valid fields to update!", nil)
	}

	if err := db.Model(&course).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse soft-deletes a course and cascades to its sections, lessons,
// quizzes and live classes. Enrollments are kept for audit.
func DeleteCourse(c *fiber.Ctx) error {
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
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	role, _ := c.Locals("role").(string)
	if !middleware.CanManageCourse(db, userID, role, course.ID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to delete this course!", nil)
	}

	tx := db.Begin()
	if err := tx.Model(&course).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	for _, model := range []interface{}{
		&courseModels.Section{},
		&courseModels.Lesson{},
		&courseModels.Quiz{},
		&courseModels.LiveClass{},
	} {
		if err := tx.Model(model).Where("course_id = ?", course.ID).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course content!", nil)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course and all related content deleted successfully!", nil)
}

// ModerateCourse publishes or rejects a pending course. Admin only.
func ModerateCourse(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	reqData := new(struct {
		Approved *bool `json:"approved"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Approved == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Field 'approved' is required!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	newStatus := "REJECTED"
	if *reqData.Approved {
		newStatus = "PUBLISHED"
	}

	if err := db.Model(&course).Update("status", newStatus).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to moderate course!", nil)
	}

	// Tell the instructor what happened
	var instructor models.Instructor
	if err := db.Where("id = ?", course.InstructorID).First(&instructor).Error; err == nil {
		var user models.User
		if err := db.Select("name, email").First(&user, instructor.UserID).Error; err == nil && user.Email != "" {
			utils.SendCourseModerationEmail(user.Email, user.Name, course.Title, *reqData.Approved)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course "+strings.ToLower(newStatus)+"!", nil)
}

// FeatureCourse toggles the landing-page featured flag. Admin only.
func FeatureCourse(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	reqData := new(struct {
		Featured *bool `json:"featured"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Featured == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Field 'featured' is required!", nil)
	}

	result := database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ? AND is_deleted = false", courseID).
		Update("is_featured", *reqData.Featured)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course featured status updated!", nil)
}
