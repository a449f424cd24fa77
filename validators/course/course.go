package courseValidator

import (
	"academy/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateCourseRequest struct {
	Title           string  `json:"title" validate:"required,min=3,max=200"`
	Description     string  `json:"description" validate:"required,min=10"`
	Category        string  `json:"category" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	Thumbnail       string  `json:"thumbnail"`
	PreviewVideo    string  `json:"preview_video"`
	DifficultyLevel string  `json:"difficulty_level" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Language        string  `json:"language"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Title":
					errors["title"] = "Title must be between 3 and 200 characters!"
				case "Description":
					errors["description"] = "Description must be at least 10 characters!"
				case "Category":
					errors["category"] = "Category is required!"
				case "Price":
					errors["price"] = "Price cannot be negative!"
				case "DifficultyLevel":
					errors["difficulty_level"] = "Difficulty must be Beginner, Intermediate or Advanced!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.DifficultyLevel == "" {
			reqData.DifficultyLevel = "Beginner"
		}
		if reqData.Language == "" {
			reqData.Language = "English"
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

type AddLessonRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Type        string `json:"type" validate:"omitempty,oneof=VIDEO TEXT video text"`
	SectionID   *uint  `json:"section_id"`
	ContentURL  string `json:"content_url"`
	ContentText string `json:"content_text"`
	Description string `json:"description"`
	Duration    int    `json:"duration" validate:"gte=0"`
	OrderIndex  int    `json:"order_index"`
	IsPreview   bool   `json:"is_preview"`
}

func AddLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddLessonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Title":
					errors["title"] = "Lesson title must be between 2 and 200 characters!"
				case "Type":
					errors["type"] = "Lesson type must be VIDEO or TEXT!"
				case "Duration":
					errors["duration"] = "Duration cannot be negative!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Type = strings.ToUpper(reqData.Type)
		if reqData.Type == "" {
			reqData.Type = "VIDEO"
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

type QuizQuestionInput struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
}

type CreateQuizRequest struct {
	Title     string              `json:"title" validate:"required,min=2,max=200"`
	Questions []QuizQuestionInput `json:"questions" validate:"required,min=1,dive"`
}

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateQuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"quiz": "A quiz needs a title and at least one question with two or more options!",
			})
		}

		// Answer index has to point at a real option
		for i, q := range reqData.Questions {
			if q.CorrectAnswer >= len(q.Options) {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"questions": "Correct answer index is out of range for question " + strconv.Itoa(i+1) + "!",
				})
			}
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

type UpdateQuizRequest struct {
	Title     string              `json:"title" validate:"omitempty,min=2,max=200"`
	Questions []QuizQuestionInput `json:"questions" validate:"omitempty,min=1,dive"`
}

func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateQuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"quiz": "Title must be 2-200 characters and questions need two or more options!",
			})
		}

		if reqData.Title == "" && reqData.Questions == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"quiz": "Provide a title or questions to update!",
			})
		}

		for i, q := range reqData.Questions {
			if q.CorrectAnswer >= len(q.Options) {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"questions": "Correct answer index is out of range for question " + strconv.Itoa(i+1) + "!",
				})
			}
		}

		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}

type SubmitQuizRequest struct {
	Answers []int `json:"answers" validate:"required,min=1"`
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitQuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"answers": "Answers are required!",
			})
		}

		c.Locals("validatedSubmitQuiz", reqData)
		return c.Next()
	}
}
