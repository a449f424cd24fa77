package instructorController

import (
	"academy/database"
	"academy/middleware"
	"academy/models"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Apply opens a pending instructor application for the current user.
func Apply(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Bio string `json:"bio"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var existing models.Instructor
	if err := db.Where("user_id = ? AND is_deleted = false", userID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already applied!", nil)
	}

	instructor := models.Instructor{
		UserID:             userID,
		VerificationStatus: "PENDING",
		Bio:                reqData.Bio,
	}
	if err := db.Create(&instructor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit application!", nil)
	}

	// role stays STUDENT until an admin approves
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Instructor application submitted and pending approval!", instructor)
}

// List returns instructor profiles, optionally filtered by verification status.
func List(c *fiber.Ctx) error {
	db := database.Database.Db.Where("is_deleted = false")

	if status := strings.ToUpper(c.Query("status")); status != "" {
		db = db.Where("verification_status = ?", status)
	}

	var instructors []models.Instructor
	if err := db.Find(&instructors).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch instructors!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Instructors fetched successfully!", instructors)
}

// Approve flips an application to APPROVED/REJECTED and promotes the user's
// role on approval. Admin only (enforced by route middleware).
func Approve(c *fiber.Ctx) error {
	instructorID, err := c.ParamsInt("id")
	if err != nil || instructorID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid instructor id!", nil)
	}

	reqData := new(struct {
		Approved *bool `json:"approved"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Approved == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Field 'approved' is required!", nil)
	}

	db := database.Database.Db

	var instructor models.Instructor
	if err := db.Where("id = ? AND is_deleted = false", instructorID).First(&instructor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Instructor not found!", nil)
	}

	newStatus := "REJECTED"
	if *reqData.Approved {
		newStatus = "APPROVED"
	}

	if err := db.Model(&instructor).Update("verification_status", newStatus).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update instructor!", nil)
	}

	if *reqData.Approved {
		db.Model(&models.User{}).Where("id = ?", instructor.UserID).Update("role", "INSTRUCTOR")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Instructor "+strings.ToLower(newStatus)+"!", nil)
}
