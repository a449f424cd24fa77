package newsletterController

import (
	"academy/config"
	"academy/database"
	"academy/middleware"
	"academy/models"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscribe signs an email up for the weekly newsletter. Logged-in callers
// get linked to their account; resubscribing reactivates a prior opt-out.
func Subscribe(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	email := strings.ToLower(strings.TrimSpace(reqData.Email))

	var userID *uint
	if id, ok := c.Locals("userId").(uint); ok {
		userID = &id
		if email == "" {
			var user models.User
			if err := database.Database.Db.Where("id = ?", id).First(&user).Error; err == nil {
				email = user.Email
			}
		}
	}

	if email == "" || !strings.Contains(email, "@") {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid email is required!", nil)
	}

	db := database.Database.Db

	var subscription models.EmailSubscription
	err := db.Where("email = ?", email).First(&subscription).Error
	if err == nil {
		if subscription.Subscribed && !subscription.IsDeleted {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This email is already subscribed!", nil)
		}
		updates := map[string]interface{}{"subscribed": true, "is_deleted": false}
		if userID != nil {
			updates["user_id"] = *userID
		}
		if err := db.Model(&subscription).Updates(updates).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to subscribe!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscribed to the newsletter!", nil)
	}
	if err != gorm.ErrRecordNotFound {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to subscribe!", nil)
	}

	subscription = models.EmailSubscription{
		UserID:           userID,
		Email:            email,
		Subscribed:       true,
		UnsubscribeToken: uuid.NewString(),
	}
	if err := db.Create(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to subscribe!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Subscribed to the newsletter!", nil)
}

// Unsubscribe is the one-click link in every newsletter email. It redirects
// to the frontend so the reader lands on a friendly page.
func Unsubscribe(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unsubscribe token is required!", nil)
	}

	db := database.Database.Db

	result := db.Model(&models.EmailSubscription{}).
		Where("unsubscribe_token = ? AND is_deleted = false", token).
		Update("subscribed", false)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unsubscribe!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invalid unsubscribe link!", nil)
	}

	if frontend := config.AppConfig.FrontendURL; frontend != "" {
		return c.Redirect(frontend+"/newsletter/unsubscribed", fiber.StatusFound)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "You have been unsubscribed!", nil)
}

// GetBlogPosts lists published newsletter posts, newest first.
func GetBlogPosts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	db := database.Database.Db.Model(&models.BlogPost{}).
		Where("status = ? AND is_deleted = false", "PUBLISHED")

	var total int64
	db.Count(&total)

	var posts []models.BlogPost
	err := db.Select("id, title, slug, excerpt, cover_image, course_id, category, views, published_at, created_at").
		Order("published_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch blog posts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Blog posts fetched successfully!", fiber.Map{
		"posts": posts,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetBlogPost fetches one post by slug and counts the view.
func GetBlogPost(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Post slug is required!", nil)
	}

	db := database.Database.Db

	var post models.BlogPost
	if err := db.Where("slug = ? AND status = ? AND is_deleted = false", slug, "PUBLISHED").First(&post).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Blog post not found!", nil)
	}

	db.Model(&post).Update("views", gorm.Expr("views + 1"))
	post.Views++

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Blog post fetched successfully!", post)
}
