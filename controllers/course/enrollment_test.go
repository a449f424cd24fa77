package courseController

import (
	"academy/config"
	"academy/database"
	"academy/models"
	courseModels "academy/models/course"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDb(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig = &config.Config{
		JWTKey:          "test-secret",
		SaltRound:       4,
		AdminCommission: 0.15,
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM certificates")
		db.Exec("DELETE FROM quiz_results")
		db.Exec("DELETE FROM quiz_questions")
		db.Exec("DELETE FROM quizzes")
		db.Exec("DELETE FROM lesson_completions")
		db.Exec("DELETE FROM enrollments")
		db.Exec("DELETE FROM lessons")
		db.Exec("DELETE FROM sections")
		db.Exec("DELETE FROM courses")
		db.Exec("DELETE FROM instructors")
		db.Exec("DELETE FROM users")
		sqlDB.Close()
	})

	return db
}

func seedEnrolledCourse(t *testing.T, db *gorm.DB, lessonCount int) (models.User, courseModels.Course, courseModels.Enrollment, []courseModels.Lesson) {
	t.Helper()

	user := models.User{Name: "Student", Email: "student@example.com", Password: "x", Role: "STUDENT", IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{InstructorID: 1, Title: "Testing in Go", Status: "PUBLISHED"}
	require.NoError(t, db.Create(&course).Error)

	lessons := make([]courseModels.Lesson, 0, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lesson := courseModels.Lesson{CourseID: course.ID, Title: "Lesson", Type: "VIDEO", OrderIndex: i}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}

	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, Status: "ACTIVE"}
	require.NoError(t, db.Create(&enrollment).Error)

	return user, course, enrollment, lessons
}

func completeLesson(t *testing.T, db *gorm.DB, enrollment *courseModels.Enrollment, lesson courseModels.Lesson) {
	t.Helper()
	require.NoError(t, db.Create(&courseModels.LessonCompletion{
		EnrollmentID: enrollment.ID,
		LessonID:     lesson.ID,
	}).Error)
	require.NoError(t, recalcProgress(db, enrollment))
}

func TestRecalcProgressDerivation(t *testing.T) {
	db := setupTestDb(t)

	_, _, enrollment, lessons := seedEnrolledCourse(t, db, 4)

	require.NoError(t, recalcProgress(db, &enrollment))
	assert.Equal(t, 0.0, enrollment.Progress)
	assert.Equal(t, "ACTIVE", enrollment.Status)

	completeLesson(t, db, &enrollment, lessons[0])
	completeLesson(t, db, &enrollment, lessons[1])
	assert.Equal(t, 50.0, enrollment.Progress)
	assert.Equal(t, "ACTIVE", enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestRecalcProgressCompletion(t *testing.T) {
	db := setupTestDb(t)

	_, _, enrollment, lessons := seedEnrolledCourse(t, db, 2)

	completeLesson(t, db, &enrollment, lessons[0])
	completeLesson(t, db, &enrollment, lessons[1])

	assert.Equal(t, 100.0, enrollment.Progress)
	assert.Equal(t, "COMPLETED", enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
}

func TestRecalcProgressReopensOnNewLesson(t *testing.T) {
	db := setupTestDb(t)

	_, course, enrollment, lessons := seedEnrolledCourse(t, db, 2)

	completeLesson(t, db, &enrollment, lessons[0])
	completeLesson(t, db, &enrollment, lessons[1])
	require.Equal(t, "COMPLETED", enrollment.Status)

	// A third lesson lands after completion
	require.NoError(t, db.Create(&courseModels.Lesson{CourseID: course.ID, Title: "Bonus", Type: "VIDEO", OrderIndex: 2}).Error)

	require.NoError(t, recalcProgress(db, &enrollment))
	assert.InDelta(t, 100.0*2/3, enrollment.Progress, 0.001)
	assert.Equal(t, "ACTIVE", enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestRecalcProgressIgnoresDeletedLessons(t *testing.T) {
	db := setupTestDb(t)

	_, _, enrollment, lessons := seedEnrolledCourse(t, db, 3)

	completeLesson(t, db, &enrollment, lessons[0])
	require.NoError(t, db.Model(&lessons[2]).Update("is_deleted", true).Error)

	require.NoError(t, recalcProgress(db, &enrollment))
	assert.Equal(t, 50.0, enrollment.Progress)
}

func TestRecalcProgressEmptyCourse(t *testing.T) {
	db := setupTestDb(t)

	_, _, enrollment, _ := seedEnrolledCourse(t, db, 0)

	require.NoError(t, recalcProgress(db, &enrollment))
	assert.Equal(t, 0.0, enrollment.Progress)
	assert.Equal(t, "ACTIVE", enrollment.Status)
}
