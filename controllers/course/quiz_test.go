package courseController

import (
	"academy/models"
	courseModels "academy/models/course"
	courseValidator "academy/validators/course"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOwnedQuiz(t *testing.T, db *gorm.DB) (models.User, courseModels.Quiz) {
	t.Helper()

	owner := models.User{Name: "Owner", Email: "owner@example.com", Password: "x", Role: "INSTRUCTOR", IsActive: true}
	require.NoError(t, db.Create(&owner).Error)

	instructor := models.Instructor{UserID: owner.ID, VerificationStatus: "APPROVED"}
	require.NoError(t, db.Create(&instructor).Error)

	course := courseModels.Course{InstructorID: instructor.ID, Title: "Go Patterns", Status: "PUBLISHED"}
	require.NoError(t, db.Create(&course).Error)

	quiz := courseModels.Quiz{
		CourseID: course.ID,
		Title:    "Checkpoint",
		Questions: []courseModels.QuizQuestion{
			{Question: "Old question?", Options: "yes|no", CorrectAnswer: 0, OrderIndex: 0},
		},
	}
	require.NoError(t, db.Create(&quiz).Error)

	return owner, quiz
}

func quizUpdateApp(userID uint, role string) *fiber.App {
	app := fiber.New()
	app.Put("/quiz/:id", func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		c.Locals("role", role)
		return c.Next()
	}, courseValidator.UpdateQuiz(), UpdateQuiz)
	return app
}

func TestUpdateQuizReplacesTitleAndQuestions(t *testing.T) {
	db := setupTestDb(t)

	owner, quiz := seedOwnedQuiz(t, db)

	body, _ := json.Marshal(fiber.Map{
		"title": "Final Exam",
		"questions": []fiber.Map{
			{"question": "What does go vet do?", "options": []string{"formats", "reports suspicious code", "builds"}, "correct_answer": 1},
			{"question": "Zero value of a slice?", "options": []string{"nil", "empty slice"}, "correct_answer": 0},
		},
	})
	req := httptest.NewRequest("PUT", fmt.Sprintf("/quiz/%d", quiz.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := quizUpdateApp(owner.ID, "INSTRUCTOR").Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh courseModels.Quiz
	require.NoError(t, db.Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index asc") }).
		First(&fresh, quiz.ID).Error)
	assert.Equal(t, "Final Exam", fresh.Title)
	require.Len(t, fresh.Questions, 2)
	assert.Equal(t, "What does go vet do?", fresh.Questions[0].Question)
	assert.Equal(t, 1, fresh.Questions[0].CorrectAnswer)
	assert.Equal(t, "nil|empty slice", fresh.Questions[1].Options)
}

func TestUpdateQuizKeepsQuestionsWhenOnlyTitleSent(t *testing.T) {
	db := setupTestDb(t)

	owner, quiz := seedOwnedQuiz(t, db)

	body, _ := json.Marshal(fiber.Map{"title": "Renamed"})
	req := httptest.NewRequest("PUT", fmt.Sprintf("/quiz/%d", quiz.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := quizUpdateApp(owner.ID, "INSTRUCTOR").Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh courseModels.Quiz
	require.NoError(t, db.Preload("Questions").First(&fresh, quiz.ID).Error)
	assert.Equal(t, "Renamed", fresh.Title)
	assert.Len(t, fresh.Questions, 1)
}

func TestUpdateQuizForbiddenForNonOwner(t *testing.T) {
	db := setupTestDb(t)

	_, quiz := seedOwnedQuiz(t, db)

	intruder := models.User{Name: "Intruder", Email: "intruder@example.com", Password: "x", Role: "INSTRUCTOR", IsActive: true}
	require.NoError(t, db.Create(&intruder).Error)
	require.NoError(t, db.Create(&models.Instructor{UserID: intruder.ID, VerificationStatus: "APPROVED"}).Error)

	body, _ := json.Marshal(fiber.Map{"title": "Hijacked"})
	req := httptest.NewRequest("PUT", fmt.Sprintf("/quiz/%d", quiz.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := quizUpdateApp(intruder.ID, "INSTRUCTOR").Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var fresh courseModels.Quiz
	require.NoError(t, db.First(&fresh, quiz.ID).Error)
	assert.Equal(t, "Checkpoint", fresh.Title)
}
