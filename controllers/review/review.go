package reviewController

import (
	"academy/database"
	"academy/middleware"
	"academy/models"
	courseModels "academy/models/course"
	"math"

	"github.com/gofiber/fiber/v2"
)

// CreateReview lets an enrolled user rate a course once.
func CreateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	reqData := new(struct {
		Rating     int    `json:"rating"`
		ReviewText string `json:"review_text"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if reqData.Rating < 1 || reqData.Rating > 5 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rating must be between 1 and 5!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !middleware.IsEnrolled(db, userID, course.ID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only enrolled users can review a course!", nil)
	}

	var existing models.Review
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, course.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	}

	review := models.Review{
		UserID:     userID,
		CourseID:   course.ID,
		Rating:     reqData.Rating,
		ReviewText: reqData.ReviewText,
	}
	if err := db.Create(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", review)
}

// GetReviews lists a course's reviews with reviewer names and the average.
func GetReviews(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var reviews []models.Review
	err = db.Where("course_id = ? AND is_deleted = false", courseID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	result := make([]fiber.Map, 0, len(reviews))
	total := 0
	for _, review := range reviews {
		var reviewer struct {
			Name         string
			ProfileImage string
		}
		db.Table("users").Select("name, profile_image").Where("id = ?", review.UserID).Scan(&reviewer)

		total += review.Rating
		result = append(result, fiber.Map{
			"id":            review.ID,
			"rating":        review.Rating,
			"review_text":   review.ReviewText,
			"created_at":    review.CreatedAt,
			"user_id":       review.UserID,
			"user_name":     reviewer.Name,
			"profile_image": reviewer.ProfileImage,
		})
	}

	average := 0.0
	if len(reviews) > 0 {
		average = math.Round(float64(total)/float64(len(reviews))*10) / 10
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", fiber.Map{
		"reviews":        result,
		"average_rating": average,
		"total_reviews":  len(reviews),
	})
}

// DeleteReview removes a review. Owners delete their own; admins delete any.
func DeleteReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reviewID, err := c.ParamsInt("id")
	if err != nil || reviewID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review id!", nil)
	}

	db := database.Database.Db

	var review models.Review
	if err := db.Where("id = ? AND is_deleted = false", reviewID).First(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
	}

	role, _ := c.Locals("role").(string)
	if review.UserID != userID && role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not authorized!", nil)
	}

	if err := db.Model(&review).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully!", nil)
}
