package adminController

import (
	"academy/database"
	"academy/middleware"
	"academy/models"
	commerceModels "academy/models/commerce"
	courseModels "academy/models/course"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// Analytics aggregates the platform dashboard numbers.
func Analytics(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalUsers, totalStudents, totalInstructors int64
	db.Model(&models.User{}).Where("is_deleted = false").Count(&totalUsers)
	db.Model(&models.User{}).Where("role = ? AND is_deleted = false", "STUDENT").Count(&totalStudents)
	db.Model(&models.User{}).Where("role = ? AND is_deleted = false", "INSTRUCTOR").Count(&totalInstructors)

	var totalCourses, publishedCourses, pendingCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = false").Count(&totalCourses)
	db.Model(&courseModels.Course{}).Where("status = ? AND is_deleted = false", "PUBLISHED").Count(&publishedCourses)
	db.Model(&courseModels.Course{}).Where("status = ? AND is_deleted = false", "PENDING").Count(&pendingCourses)

	var totalEnrollments, totalCertificates int64
	db.Model(&courseModels.Enrollment{}).Where("is_deleted = false").Count(&totalEnrollments)
	db.Model(&courseModels.Certificate{}).Where("is_deleted = false").Count(&totalCertificates)

	var totalRevenue, monthRevenue float64
	db.Model(&commerceModels.Payment{}).
		Where("payment_status = ? AND is_deleted = false", commerceModels.PaymentPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRevenue)

	monthStart := now.BeginningOfMonth()
	db.Model(&commerceModels.Payment{}).
		Where("payment_status = ? AND is_deleted = false AND created_at >= ?", commerceModels.PaymentPaid, monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&monthRevenue)

	var newUsersThisMonth int64
	db.Model(&models.User{}).
		Where("is_deleted = false AND created_at >= ?", monthStart).
		Count(&newUsersThisMonth)

	var pendingInstructors int64
	db.Model(&models.Instructor{}).Where("verification_status = ? AND is_deleted = false", "PENDING").Count(&pendingInstructors)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"users": fiber.Map{
			"total":          totalUsers,
			"students":       totalStudents,
			"instructors":    totalInstructors,
			"new_this_month": newUsersThisMonth,
		},
		"courses": fiber.Map{
			"total":     totalCourses,
			"published": publishedCourses,
			"pending":   pendingCourses,
		},
		"enrollments":  totalEnrollments,
		"certificates": totalCertificates,
		"revenue": fiber.Map{
			"total":      totalRevenue,
			"this_month": monthRevenue,
		},
		"pending_instructors": pendingInstructors,
	})
}

// ListUsers returns a paginated user list, optionally filtered by role or a
// name/email search.
func ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = false")

	if role := strings.ToUpper(c.Query("role")); role != "" {
		db = db.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		db = db.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Order("created_at desc").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateUserRole changes a user's role.
func UpdateUserRole(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData := new(struct {
		Role string `json:"role"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	role := strings.ToUpper(reqData.Role)
	switch role {
	case "STUDENT", "INSTRUCTOR", "ADMIN":
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Role must be STUDENT, INSTRUCTOR or ADMIN!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", targetID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := db.Model(&user).Update("role", role).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update role!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated successfully!", nil)
}

// ToggleUserStatus activates or deactivates an account. Deactivated users
// cannot log in; existing tokens die on the next role check.
func ToggleUserStatus(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	adminID, _ := c.Locals("userId").(uint)
	if uint(targetID) == adminID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot deactivate your own account!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", targetID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := db.Model(&user).Update("is_active", !user.IsActive).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User status updated successfully!", fiber.Map{
		"is_active": !user.IsActive,
	})
}

// DeleteUser soft-deletes an account.
func DeleteUser(c *fiber.Ctx) error {
	targetID, err := c.ParamsInt("id")
	if err != nil || targetID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	adminID, _ := c.Locals("userId").(uint)
	if uint(targetID) == adminID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", targetID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}

// PendingCourses lists courses waiting for moderation.
func PendingCourses(c *fiber.Ctx) error {
	db := database.Database.Db

	var courses []courseModels.Course
	err := db.Where("status = ? AND is_deleted = false", "PENDING").
		Order("created_at asc").
		Find(&courses).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending courses fetched successfully!", courses)
}

// Stats is the public landing-page counter endpoint.
func Stats(c *fiber.Ctx) error {
	db := database.Database.Db

	var courses, students, instructors, certificates int64
	db.Model(&courseModels.Course{}).Where("status = ? AND is_deleted = false", "PUBLISHED").Count(&courses)
	db.Model(&models.User{}).Where("role = ? AND is_deleted = false", "STUDENT").Count(&students)
	db.Model(&models.Instructor{}).Where("verification_status = ? AND is_deleted = false", "APPROVED").Count(&instructors)
	db.Model(&courseModels.Certificate{}).Where("is_deleted = false").Count(&certificates)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully!", fiber.Map{
		"courses":      courses,
		"students":     students,
		"instructors":  instructors,
		"certificates": certificates,
	})
}
