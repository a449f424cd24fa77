package courseRoutes

import (
	controllers "academy/controllers/course"
	"academy/middleware"
	validators "academy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up course discovery, authoring, enrollment,
// progress, quiz and certificate routes.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Discovery (auth optional; owners and admins see more)
	courseGroup.Get("/list", middleware.OptionalJWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.OptionalJWTMiddleware, controllers.GetCourseDetails)

	// Authoring
	courseGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole("INSTRUCTOR", "ADMIN"), validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, controllers.DeleteCourse)

	// Sections
	courseGroup.Post("/:id/section", middleware.JWTMiddleware, controllers.CreateSection)
	courseGroup.Get("/:id/sections", controllers.GetSections)

	sectionGroup := app.Group("/section")
	sectionGroup.Put("/:id", middleware.JWTMiddleware, controllers.UpdateSection)
	sectionGroup.Delete("/:id", middleware.JWTMiddleware, controllers.DeleteSection)

	// Lessons
	courseGroup.Post("/:id/lesson", middleware.JWTMiddleware, validators.AddLesson(), controllers.AddLesson)
	courseGroup.Get("/:id/lessons", middleware.OptionalJWTMiddleware, controllers.GetLessons)

	lessonGroup := app.Group("/lesson")
	lessonGroup.Put("/:id", middleware.JWTMiddleware, controllers.UpdateLesson)
	lessonGroup.Delete("/:id", middleware.JWTMiddleware, controllers.DeleteLesson)
	lessonGroup.Post("/:id/complete", middleware.JWTMiddleware, controllers.CompleteLesson)

	// Live classes
	courseGroup.Post("/:id/live-class", middleware.JWTMiddleware, controllers.CreateLiveClass)
	courseGroup.Get("/:id/live-classes", middleware.OptionalJWTMiddleware, controllers.GetLiveClasses)

	liveClassGroup := app.Group("/live-class")
	liveClassGroup.Put("/:id", middleware.JWTMiddleware, controllers.UpdateLiveClass)
	liveClassGroup.Delete("/:id", middleware.JWTMiddleware, controllers.DeleteLiveClass)

	// Enrollment and progress
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, controllers.EnrollInCourse)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, controllers.LessonProgress)
	courseGroup.Patch("/:id/progress", middleware.JWTMiddleware, controllers.UpdateProgress)

	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.MyCourses)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.MyCertificates)

	// Quizzes
	courseGroup.Post("/:id/quiz", middleware.JWTMiddleware, validators.CreateQuiz(), controllers.CreateQuiz)
	courseGroup.Get("/:id/quizzes", middleware.OptionalJWTMiddleware, controllers.GetQuizzes)
	courseGroup.Get("/:id/quiz/results", middleware.JWTMiddleware, controllers.MyQuizResults)

	quizGroup := app.Group("/quiz")
	quizGroup.Post("/:id/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuiz)
	quizGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateQuiz(), controllers.UpdateQuiz)
	quizGroup.Delete("/:id", middleware.JWTMiddleware, controllers.DeleteQuiz)

	// Certificates
	courseGroup.Get("/:id/certificate/eligibility", middleware.JWTMiddleware, controllers.CheckEligibility)
	courseGroup.Get("/:id/certificate/download", middleware.JWTMiddleware, controllers.DownloadCertificate)

	certificateGroup := app.Group("/certificate")
	certificateGroup.Get("/verify/:number", controllers.GetCertificate)
}
