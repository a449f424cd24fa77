package courseController

import (
	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"
	courseValidator "academy/validators/course"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ---- Sections ----

func CreateSection(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	reqData := new(struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		OrderIndex  int    `json:"order_index"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Section title is required!", nil)
	}

	section := courseModels.Section{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}
	if err := db.Create(&section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Section created successfully!", section)
}

func GetSections(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var sections []courseModels.Section
	err = database.Database.Db.
		Where("course_id = ? AND is_deleted = false", courseID).
		Order("order_index asc").
		Find(&sections).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch sections!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sections fetched successfully!", sections)
}

func UpdateSection(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section id!", nil)
	}

	db := database.Database.Db

	var section courseModels.Section
	if err := db.Where("id = ? AND is_deleted = false", sectionID).First(&section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	role, _ := c.Locals("role").(string)
	if !middleware.CanManageCourse(db, userID, role, section.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	reqData := new(struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		OrderIndex  *int    `json:"order_index"`
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
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No valid fields to update!", nil)
	}

	if err := db.Model(&section).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section updated successfully!", section)
}

func DeleteSection(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID, err := c.ParamsInt("id")
	if err != nil || sectionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section id!", nil)
	}

	db := database.Database.Db

	var section courseModels.Section
	if err := db.Where("id = ? AND is_deleted = false", sectionID).First(&section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	role, _ := c.Locals("role").(string)
	if !middleware.CanManageCourse(db, userID, role, section.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	tx := db.Begin()
	if err := tx.Model(&section).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete section!", nil)
	}
	// Lessons in the section survive as standalone course lessons
	if err := tx.Model(&courseModels.Lesson{}).Where("section_id = ?", section.ID).Update("section_id", nil).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to detach lessons!", nil)
	}
	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete section!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section deleted successfully!", nil)
}

// ---- Lessons ----

func AddLesson(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	reqData := c.Locals("validatedLesson").(*courseValidator.AddLessonRequest)

	lesson := courseModels.Lesson{
		CourseID:    course.ID,
		SectionID:   reqData.SectionID,
		Title:       reqData.Title,
		Type:        reqData.Type,
		ContentURL:  reqData.ContentURL,
		ContentText: reqData.ContentText,
		Description: reqData.Description,
		Duration:    reqData.Duration,
		OrderIndex:  reqData.OrderIndex,
		IsPreview:   reqData.IsPreview,
	}

	if err := db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add lesson!", nil)
	}

	// Adding content reopens completed enrollments: the new lesson is not
	// completed yet, so 100% no longer holds.
	db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND status = ? AND is_deleted = false", course.ID, "COMPLETED").
		Updates(map[string]interface{}{"status": "ACTIVE", "completed_at": nil})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson added successfully!", lesson)
}

// GetLessons lists a course's lessons. Full content is reserved for enrolled
// users, owners and admins; everyone else only sees preview lessons' content.
func GetLessons(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var lessons []courseModels.Lesson
	err = db.Where("course_id = ? AND is_deleted = false", courseID).
		Order("order_index asc").
		Find(&lessons).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	authorized := false
	if userID, ok := c.Locals("userId").(uint); ok {
		role, _ := c.Locals("role").(string)
		if middleware.CanManageCourse(db, userID, role, uint(courseID)) || middleware.IsEnrolled(db, userID, uint(courseID)) {
			authorized = true
		}
	}

	if !authorized {
		for i := range lessons {
			if !lessons[i].IsPreview {
				lessons[i].ContentURL = ""
				lessons[i].ContentText = ""
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}

func UpdateLesson(c *fiber.Ctx) error {
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

	role, _ := c.Locals("role").(string)
	if !middleware.CanManageCourse(db, userID, role, lesson.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	reqData := new(struct {
		Title       *string `json:"title"`
		ContentURL  *string `json:"content_url"`
		ContentText *string `json:"content_text"`
		Description *string `json:"description"`
		Duration    *int    `json:"duration"`
		OrderIndex  *int    `json:"order_index"`
		IsPreview   *bool   `json:"is_preview"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.ContentURL != nil {
		updates["content_url"] = *reqData.ContentURL
	}
	if reqData.ContentText != nil {
		updates["content_text"] = *reqData.ContentText
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Duration != nil {
		updates["duration"] = *reqData.Duration
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}
	if reqData.IsPreview != nil {
		updates["is_preview"] = *reqData.IsPreview
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No valid fields to update!", nil)
	}

	if err := db.Model(&lesson).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

func DeleteLesson(c *fiber.Ctx) error {
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

	role, _ := c.Locals("role").(string)
	if !middleware.CanManageCourse(db, userID, role, lesson.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	if err := db.Model(&lesson).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// ---- Live classes ----

func CreateLiveClass(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	reqData := new(struct {
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		ScheduledAt  time.Time `json:"scheduled_at"`
		Duration     int       `json:"duration"`
		MeetingURL   string    `json:"meeting_url"`
		MaxAttendees *int      `json:"max_attendees"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Live class title is required!", nil)
	}
	if reqData.ScheduledAt.Before(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Live class must be scheduled in the future!", nil)
	}

	liveClass := courseModels.LiveClass{
		CourseID:     course.ID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		ScheduledAt:  reqData.ScheduledAt,
		Duration:     reqData.Duration,
		MeetingURL:   reqData.MeetingURL,
		Status:       "SCHEDULED",
		MaxAttendees: reqData.MaxAttendees,
	}
	if err := db.Create(&liveClass).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create live class!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Live class scheduled successfully!", liveClass)
}

func GetLiveClasses(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var liveClasses []courseModels.LiveClass
	err = database.Database.Db.
		Where("course_id = ? AND is_deleted = false", courseID).
		Order("scheduled_at asc").
		Find(&liveClasses).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch live classes!", nil)
	}

	// Meeting links stay private until the viewer is enrolled or staff
	authorized := false
	if userID, ok := c.Locals("userId").(uint); ok {
		role, _ := c.Locals("role").(string)
		db := database.Database.Db
		if middleware.CanManageCourse(db, userID, role, uint(courseID)) || middleware.IsEnrolled(db, userID, uint(courseID)) {
			authorized = true
		}
	}
	if !authorized {
		for i := range liveClasses {
			liveClasses[i].MeetingURL = ""
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live classes fetched successfully!", liveClasses)
}

func UpdateLiveClass(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	liveClassID, err := c.ParamsInt("id")
	if err != nil || liveClassID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid live class id!", nil)
	}

	db := database.Database.Db

	var liveClass courseModels.LiveClass
	if err := db.Where("id = ? AND is_deleted = false", liveClassID).First(&liveClass).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Live class not found!", nil)
	}

	role, _ := c.Locals("role").(string)
	if !middleware.CanManageCourse(db, userID, role, liveClass.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	reqData := new(struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		ScheduledAt *time.Time `json:"scheduled_at"`
		Duration    *int       `json:"duration"`
		MeetingURL  *string    `json:"meeting_url"`
		Status      *string    `json:"status"`
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
	if reqData.ScheduledAt != nil {
		updates["scheduled_at"] = *reqData.ScheduledAt
	}
	if reqData.Duration != nil {
		updates["duration"] = *reqData.Duration
	}
	if reqData.MeetingURL != nil {
		updates["meeting_url"] = *reqData.MeetingURL
	}
	if reqData.Status != nil {
		switch *reqData.Status {
		case "SCHEDULED", "LIVE", "COMPLETED", "CANCELLED":
			updates["status"] = *reqData.Status
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid live class status!", nil)
		}
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No valid fields to update!", nil)
	}

	if err := db.Model(&liveClass).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update live class!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live class updated successfully!", liveClass)
}

func DeleteLiveClass(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	liveClassID, err := c.ParamsInt("id")
	if err != nil || liveClassID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid live class id!", nil)
	}

	db := database.Database.Db

	var liveClass courseModels.LiveClass
	if err := db.Where("id = ? AND is_deleted = false", liveClassID).First(&liveClass).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Live class not found!", nil)
	}

	role, _ := c.Locals("role").(string)
	if !middleware.CanManageCourse(db, userID, role, liveClass.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	if err := db.Model(&liveClass).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete live class!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Live class deleted successfully!", nil)
}
