package aiController

import (
	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"
	"academy/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

const maxPromptLength = 4000

// CourseAssistant drafts course material (outlines, descriptions, lesson
// ideas) for the owning instructor.
func CourseAssistant(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		CourseID uint   `json:"course_id"`
		Prompt   string `json:"prompt"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Prompt == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Prompt is required!", nil)
	}
	if len(reqData.Prompt) > maxPromptLength {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Prompt is too long!", nil)
	}

	db := database.Database.Db

	systemPrompt := "You are a course creation assistant for an online learning platform. " +
		"Help the instructor write outlines, descriptions and lesson content. Be concise and practical."

	if reqData.CourseID != 0 {
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = false", reqData.CourseID).First(&course).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		role, _ := c.Locals("role").(string)
		if !middleware.CanManageCourse(db, userID, role, course.ID) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
		}
		systemPrompt += " The instructor is working on the course \"" + course.Title + "\" (" + course.Category + "): " + course.Description
	}

	groq := utils.NewGroqClient()
	answer, err := groq.SendMessage(systemPrompt, reqData.Prompt)
	if err != nil {
		log.Printf("Groq assistant request failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "AI assistant is unavailable right now!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assistant response generated!", fiber.Map{
		"response": answer,
	})
}

// Tutor answers an enrolled student's question in the context of a course
// and optionally a specific lesson.
func Tutor(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		CourseID uint   `json:"course_id"`
		LessonID uint   `json:"lesson_id"`
		Question string `json:"question"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.CourseID == 0 || reqData.Question == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course id and question are required!", nil)
	}
	if len(reqData.Question) > maxPromptLength {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question is too long!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", reqData.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !middleware.IsEnrolled(db, userID, course.ID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	systemPrompt := "You are a patient tutor on an online learning platform. " +
		"The student is taking the course \"" + course.Title + "\" (" + course.Category + "). " +
		"Answer their question clearly and encourage them to keep going."

	if reqData.LessonID != 0 {
		var lesson courseModels.Lesson
		if err := db.Where("id = ? AND course_id = ? AND is_deleted = false", reqData.LessonID, course.ID).First(&lesson).Error; err == nil {
			context := lesson.ContentText
			if len(context) > 2000 {
				context = context[:2000]
			}
			systemPrompt += " They are currently on the lesson \"" + lesson.Title + "\"."
			if context != "" {
				systemPrompt += " Lesson content: " + context
			}
		}
	}

	groq := utils.NewGroqClient()
	answer, err := groq.SendMessage(systemPrompt, reqData.Question)
	if err != nil {
		log.Printf("Groq tutor request failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "AI tutor is unavailable right now!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tutor response generated!", fiber.Map{
		"response": answer,
	})
}

// Recommendations suggests published courses based on the categories the
// user already studies. No model call; plain popularity within categories.
func Recommendations(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var enrolledIDs []uint
	db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND is_deleted = false", userID).
		Pluck("course_id", &enrolledIDs)

	query := db.Where("status = ? AND is_deleted = false", "PUBLISHED")

	if len(enrolledIDs) > 0 {
		var categories []string
		db.Model(&courseModels.Course{}).
			Where("id IN ?", enrolledIDs).
			Distinct().
			Pluck("category", &categories)

		query = query.Where("id NOT IN ?", enrolledIDs)
		if len(categories) > 0 {
			query = query.Where("category IN ?", categories)
		}
	}

	var courses []courseModels.Course
	if err := query.Order("is_featured desc, created_at desc").Limit(10).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch recommendations!", nil)
	}

	// Fall back to featured courses for brand-new users with no matches
	if len(courses) == 0 {
		db.Where("status = ? AND is_deleted = false", "PUBLISHED").
			Order("is_featured desc, created_at desc").
			Limit(10).
			Find(&courses)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recommendations fetched successfully!", courses)
}
