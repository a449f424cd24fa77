package utils

import (
	"academy/database"
	"academy/models"
	"academy/models/course"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// logNewsletter logs newsletter job events with timestamp
func logNewsletter(message string) {
	log.Printf("[NEWSLETTER %s] %s", time.Now().Format(time.RFC3339), message)
}

var slugStrip = regexp.MustCompile(`[^\w\s-]`)
var slugSpaces = regexp.MustCompile(`[\s_-]+`)

// Slugify converts a title to a URL-friendly slug
func Slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = slugStrip.ReplaceAllString(text, "")
	text = slugSpaces.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// excerptOf clips content for list views. Truncation counts runes, not
// bytes, so multibyte characters are never split mid-sequence.
func excerptOf(content string) string {
	runes := []rune(content)
	if len(runes) <= 150 {
		return content
	}
	return strings.TrimSpace(string(runes[:150])) + "..."
}

// GenerateWeeklyBlog asks the LLM for a post about the latest published
// course and stores it. Returns nil when there is nothing to write about.
func GenerateWeeklyBlog(db *gorm.DB) (*models.BlogPost, error) {
	var featured course.Course
	err := db.Where("status = ? AND is_deleted = false", "PUBLISHED").
		Order("created_at desc").
		First(&featured).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logNewsletter("No published courses found for blog generation")
			return nil, nil
		}
		return nil, err
	}

	instructorName := "our expert instructor"
	var instructor models.Instructor
	if err := db.Where("id = ? AND is_deleted = false", featured.InstructorID).First(&instructor).Error; err == nil {
		var user models.User
		if err := db.Select("name").First(&user, instructor.UserID).Error; err == nil && user.Name != "" {
			instructorName = user.Name
		}
	}

	prompt := fmt.Sprintf(`Write a 400-word blog post about this online course in a friendly, motivational tone:

Course Title: %s
Description: %s
Category: %s
Instructor: %s

The blog should:
- Explain what students will learn and why it matters
- Highlight the key benefits and outcomes
- Include motivation for online learning
- End with a subtle call-to-action to explore the course
- Use markdown formatting with headers (##, ###)

Format: Markdown
Length: 400-500 words
`, featured.Title, featured.Description, featured.Category, instructorName)

	groq := NewGroqClient()
	content, err := groq.SendMessage("You are a content writer for an online learning platform.", prompt)
	if err != nil {
		logNewsletter("Blog generation failed: " + err.Error())
		return nil, err
	}

	title, err := groq.SendMessage(
		"You write catchy blog titles. Reply with the title only.",
		fmt.Sprintf("Create a catchy, engaging blog post title (max 60 chars) about: %s", featured.Title),
	)
	if err != nil {
		title = "This Week at Academy: " + featured.Title
	}
	title = strings.Trim(strings.TrimSpace(title), `"`)

	excerpt := excerptOf(content)

	publishedAt := time.Now().UTC()
	post := models.BlogPost{
		Title:       title,
		Slug:        Slugify(title),
		Content:     content,
		Excerpt:     excerpt,
		CoverImage:  featured.Thumbnail,
		CourseID:    featured.ID,
		AuthorID:    featured.InstructorID,
		Category:    "Newsletter",
		Status:      "PUBLISHED",
		PublishedAt: &publishedAt,
	}

	if err := db.Create(&post).Error; err != nil {
		return nil, err
	}

	logNewsletter("Generated blog post: " + title)
	return &post, nil
}

// SendWeeklyNewsletter emails the latest unsent blog post to every active
// subscriber. Per-recipient failures are logged and counted, never fatal.
func SendWeeklyNewsletter(db *gorm.DB) (sent int, failed int, err error) {
	var post models.BlogPost
	err = db.Where("status = ? AND sent_to_subscribers = false AND is_deleted = false", "PUBLISHED").
		Order("created_at desc").
		First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logNewsletter("No unsent blog post available")
			return 0, 0, nil
		}
		return 0, 0, err
	}

	var subscribers []models.EmailSubscription
	if err = db.Where("subscribed = true AND is_deleted = false").Find(&subscribers).Error; err != nil {
		return 0, 0, err
	}

	for _, sub := range subscribers {
		body := NewsletterEmailBody(post.Title, post.Excerpt, post.Content, post.CourseID, sub.UnsubscribeToken)
		if mailErr := SendEmail(sub.Email, post.Title, body); mailErr != nil {
			logNewsletter("Failed to send to " + sub.Email + ": " + mailErr.Error())
			failed++
			continue
		}
		sent++
	}

	db.Model(&post).Updates(map[string]interface{}{
		"sent_to_subscribers": true,
		"email_sent_count":    sent,
	})

	logNewsletter(fmt.Sprintf("Newsletter sent: %d delivered, %d failed", sent, failed))
	return sent, failed, nil
}

// StartNewsletterScheduler generates and sends the weekly newsletter every
// Monday at 09:00 UTC.
func StartNewsletterScheduler(c *cron.Cron) {
	c.AddFunc("0 9 * * 1", func() {
		db := database.Database.Db
		if _, err := GenerateWeeklyBlog(db); err != nil {
			logNewsletter("Weekly generation error: " + err.Error())
			return
		}
		if _, _, err := SendWeeklyNewsletter(db); err != nil {
			logNewsletter("Weekly send error: " + err.Error())
		}
	})
	logNewsletter("Weekly newsletter scheduler started - runs Mondays 09:00 UTC")
}
