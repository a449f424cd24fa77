package courseController

import (
	courseModels "academy/models/course"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func finishAllLessons(t *testing.T, db *gorm.DB, enrollment *courseModels.Enrollment, lessons []courseModels.Lesson) {
	t.Helper()
	for _, lesson := range lessons {
		completeLesson(t, db, enrollment, lesson)
	}
}

func TestCertificateEligibilityRequiresFullProgress(t *testing.T) {
	db := setupTestDb(t)

	user, course, enrollment, lessons := seedEnrolledCourse(t, db, 2)

	completeLesson(t, db, &enrollment, lessons[0])

	eligible, reason := checkCertificateEligibility(db, user.ID, course.ID)
	assert.False(t, eligible)
	assert.Equal(t, "Course progress is not yet 100%", reason)
}

func TestCertificateEligibilityRequiresPassingEveryQuiz(t *testing.T) {
	db := setupTestDb(t)

	user, course, enrollment, lessons := seedEnrolledCourse(t, db, 1)
	finishAllLessons(t, db, &enrollment, lessons)

	quiz := courseModels.Quiz{CourseID: course.ID, Title: "Final Exam"}
	require.NoError(t, db.Create(&quiz).Error)

	eligible, reason := checkCertificateEligibility(db, user.ID, course.ID)
	assert.False(t, eligible)
	assert.Equal(t, "Quiz not attempted: Final Exam", reason)

	require.NoError(t, db.Create(&courseModels.QuizResult{
		UserID: user.ID, QuizID: quiz.ID, CourseID: course.ID, Score: 60,
	}).Error)

	eligible, reason = checkCertificateEligibility(db, user.ID, course.ID)
	assert.False(t, eligible)
	assert.Equal(t, "Passing score not reached on quiz: Final Exam", reason)

	// The best attempt counts, not the latest
	require.NoError(t, db.Create(&courseModels.QuizResult{
		UserID: user.ID, QuizID: quiz.ID, CourseID: course.ID, Score: 85,
	}).Error)

	eligible, _ = checkCertificateEligibility(db, user.ID, course.ID)
	assert.True(t, eligible)
}

func TestCertificateEligibilityBoundaryScore(t *testing.T) {
	db := setupTestDb(t)

	user, course, enrollment, lessons := seedEnrolledCourse(t, db, 1)
	finishAllLessons(t, db, &enrollment, lessons)

	quiz := courseModels.Quiz{CourseID: course.ID, Title: "Checkpoint"}
	require.NoError(t, db.Create(&quiz).Error)
	require.NoError(t, db.Create(&courseModels.QuizResult{
		UserID: user.ID, QuizID: quiz.ID, CourseID: course.ID, Score: 70,
	}).Error)

	eligible, _ := checkCertificateEligibility(db, user.ID, course.ID)
	assert.True(t, eligible)
}

func TestCertificateIssuedAtMostOnce(t *testing.T) {
	db := setupTestDb(t)

	user, course, enrollment, lessons := seedEnrolledCourse(t, db, 1)
	finishAllLessons(t, db, &enrollment, lessons)

	first := issueCertificateIfEligible(db, user.ID, course.ID)
	require.NotNil(t, first)
	assert.NotEmpty(t, first.CertificateNumber)

	second := issueCertificateIfEligible(db, user.ID, course.ID)
	require.NotNil(t, second)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var count int64
	db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCertificateConcurrentIssuanceReturnsSameCertificate(t *testing.T) {
	db := setupTestDb(t)

	user, course, enrollment, lessons := seedEnrolledCourse(t, db, 1)
	finishAllLessons(t, db, &enrollment, lessons)

	// Every racing trigger must come back with the one certificate, even
	// the ones that lose the insert to the unique index.
	results := make([]*courseModels.Certificate, 10)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = issueCertificateIfEligible(db, user.ID, course.ID)
		}(i)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	number := results[0].CertificateNumber
	for _, cert := range results {
		require.NotNil(t, cert)
		assert.Equal(t, number, cert.CertificateNumber)
	}

	var count int64
	db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCertificateNotIssuedWhenIneligible(t *testing.T) {
	db := setupTestDb(t)

	user, course, _, _ := seedEnrolledCourse(t, db, 2)

	assert.Nil(t, issueCertificateIfEligible(db, user.ID, course.ID))

	var count int64
	db.Model(&courseModels.Certificate{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
