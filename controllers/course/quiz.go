package courseController

import (
	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"
	courseValidator "academy/validators/course"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateQuiz(c *fiber.Ctx) error {
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

	reqData := c.Locals("validatedQuiz").(*courseValidator.CreateQuizRequest)

	quiz := courseModels.Quiz{
		CourseID: course.ID,
		Title:    reqData.Title,
	}
	for i, q := range reqData.Questions {
		quiz.Questions = append(quiz.Questions, courseModels.QuizQuestion{
			Question:      q.Question,
			Options:       strings.Join(q.Options, "|"),
			CorrectAnswer: q.CorrectAnswer,
			OrderIndex:    i,
		})
	}

	if err := db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// GetQuizzes lists a course's quizzes. Questions are included for enrolled
// users and staff; correct answers only for staff.
func GetQuizzes(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var quizzes []courseModels.Quiz
	err = db.Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index asc") }).
		Where("course_id = ? AND is_deleted = false", courseID).
		Find(&quizzes).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	staff := false
	enrolled := false
	if userID, ok := c.Locals("userId").(uint); ok {
		role, _ := c.Locals("role").(string)
		staff = middleware.CanManageCourse(db, userID, role, uint(courseID))
		enrolled = middleware.IsEnrolled(db, userID, uint(courseID))
	}

	result := make([]fiber.Map, 0, len(quizzes))
	for _, quiz := range quizzes {
		entry := fiber.Map{
			"id":              quiz.ID,
			"course_id":       quiz.CourseID,
			"title":           quiz.Title,
			"questions_count": len(quiz.Questions),
		}
		if staff || enrolled {
			questions := make([]fiber.Map, 0, len(quiz.Questions))
			for _, q := range quiz.Questions {
				question := fiber.Map{
					"id":       q.ID,
					"question": q.Question,
					"options":  strings.Split(q.Options, "|"),
				}
				if staff {
					question["correct_answer"] = q.CorrectAnswer
				}
				questions = append(questions, question)
			}
			entry["questions"] = questions
		}
		result = append(result, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", result)
}

// UpdateQuiz replaces a quiz's title and/or its whole question set. Partial
// question edits are not supported; the client sends the full new set.
func UpdateQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("id")
	if err != nil || quizID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}

	db := database.Database.Db

	var quiz courseModels.Quiz
	if err := db.Where("id = ? AND is_deleted = false", quizID).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	role, _ := c.Locals("role").(string)
	if !middleware.CanManageCourse(db, userID, role, quiz.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	reqData := c.Locals("validatedQuizUpdate").(*courseValidator.UpdateQuizRequest)

	err = db.Transaction(func(tx *gorm.DB) error {
		if reqData.Title != "" {
			if err := tx.Model(&quiz).Update("title", reqData.Title).Error; err != nil {
				return err
			}
		}
		if reqData.Questions != nil {
			if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&courseModels.QuizQuestion{}).Error; err != nil {
				return err
			}
			for i, q := range reqData.Questions {
				question := courseModels.QuizQuestion{
					QuizID:        quiz.ID,
					Question:      q.Question,
					Options:       strings.Join(q.Options, "|"),
					CorrectAnswer: q.CorrectAnswer,
					OrderIndex:    i,
				}
				if err := tx.Create(&question).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	db.Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index asc") }).
		First(&quiz, quiz.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

func DeleteQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("id")
	if err != nil || quizID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}

	db := database.Database.Db

	var quiz courseModels.Quiz
	if err := db.Where("id = ? AND is_deleted = false", quizID).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	role, _ := c.Locals("role").(string)
	if !middleware.CanManageCourse(db, userID, role, quiz.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	if err := db.Model(&quiz).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}

// SubmitQuiz grades an answer sheet against the stored answer key. The best
// score per quiz counts toward certification; every attempt is kept.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID, err := c.ParamsInt("id")
	if err != nil || quizID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}

	db := database.Database.Db

	var quiz courseModels.Quiz
	err = db.Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index asc") }).
		Where("id = ? AND is_deleted = false", quizID).
		First(&quiz).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if !middleware.IsEnrolled(db, userID, quiz.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	reqData := c.Locals("validatedSubmitQuiz").(*courseValidator.SubmitQuizRequest)

	if len(quiz.Questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz has no questions!", nil)
	}
	if len(reqData.Answers) != len(quiz.Questions) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer count does not match question count!", nil)
	}

	correct := 0
	for i, q := range quiz.Questions {
		if reqData.Answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	score := 100 * float64(correct) / float64(len(quiz.Questions))

	result := courseModels.QuizResult{
		UserID:   userID,
		QuizID:   quiz.ID,
		CourseID: quiz.CourseID,
		Score:    score,
	}
	if err := db.Create(&result).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save quiz result!", nil)
	}

	// A passing attempt may be the last missing certification requirement
	if score >= 70 {
		issueCertificateIfEligible(db, userID, quiz.CourseID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully!", fiber.Map{
		"score":   score,
		"correct": correct,
		"total":   len(quiz.Questions),
		"passed":  score >= 70,
	})
}

// MyQuizResults returns the caller's attempts for a course.
func MyQuizResults(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	var results []courseModels.QuizResult
	err = database.Database.Db.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at desc").
		Find(&results).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz results!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz results fetched successfully!", results)
}
