package utils

import (
	"academy/config"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers one HTML email through SendGrid. Callers on the request
// path should run this in a goroutine; a mail failure must never fail the
// request that triggered it.
func SendEmail(to, subject, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Println("SendGrid API key missing, skipping email to", to)
		return fmt.Errorf("sendgrid not configured")
	}

	from := mail.NewEmail(config.AppConfig.SenderName, config.AppConfig.SenderEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected email to %s: %d %s", to, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}
	return nil
}

// HTML wrapper shared by all platform emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #065F46; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F2937; line-height: 1.6; }
			.content h2 { color: #065F46; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #10B981; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #ECFDF5; padding: 15px; border-radius: 4px; border-left: 4px solid #10B981; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>ACADEMY</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Academy. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Academy"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>Academy</strong>! Your account has been created successfully.</p>
		<p>Browse our published courses and start learning today.</p>
		<a href="%s/courses" class="btn">Explore Courses</a>
	`, name, config.AppConfig.FrontendURL)

	go SendEmail(email, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Password reset
func SendResetEmail(email, token string) {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.FrontendURL, token)
	subject := "Reset your Academy password"
	body := fmt.Sprintf(`
		<p>We received a request to reset your password.</p>
		<p>This link is valid for one hour. If you did not request a reset, you can safely ignore this email.</p>
		<a href="%s" class="btn">Reset Password</a>
	`, resetURL)

	go SendEmail(email, subject, getEmailTemplate("Password Reset", body))
}

// 3. Enrollment confirmation after a successful purchase
func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Open your dashboard to start the first lesson.
		</div>
	`, name, courseTitle)

	go SendEmail(email, subject, getEmailTemplate("Enrollment Successful", body))
}

// 4. Certificate issued
func SendCertificateEmail(email, name, courseTitle, certificateNumber string) {
	subject := "Your certificate for " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You completed <strong>%s</strong> and earned a certificate.</p>
		<div class="info-box">Certificate ID: %s</div>
		<p>You can download it from your certificates page at any time.</p>
	`, name, courseTitle, certificateNumber)

	go SendEmail(email, subject, getEmailTemplate("Certificate Earned", body))
}

// 5. Course moderation outcome (to instructor)
func SendCourseModerationEmail(email, name, courseTitle string, approved bool) {
	if approved {
		subject := "Course Published: " + courseTitle
		body := fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>Great news! Your course <strong>%s</strong> has been approved and is now live.</p>
		`, name, courseTitle)
		go SendEmail(email, subject, getEmailTemplate("Course Approved", body))
		return
	}

	subject := "Course Rejected: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Unfortunately, your course <strong>%s</strong> was not approved.</p>
		<p>Please review our content guidelines, make changes and submit again.</p>
	`, name, courseTitle)
	go SendEmail(email, subject, getEmailTemplate("Course Rejected", body))
}

// NewsletterEmailBody renders the weekly newsletter mail for one subscriber.
func NewsletterEmailBody(title, excerpt, content string, courseID uint, unsubscribeToken string) string {
	courseURL := config.AppConfig.FrontendURL + "/courses"
	if courseID > 0 {
		courseURL = fmt.Sprintf("%s/courses/%d", config.AppConfig.FrontendURL, courseID)
	}
	unsubscribeURL := fmt.Sprintf("%s/api/newsletter/unsubscribe?token=%s", config.AppConfig.FrontendURL, unsubscribeToken)

	body := fmt.Sprintf(`
		<p><em>%s</em></p>
		<div>%s</div>
		<a href="%s" class="btn">Explore the Course</a>
		<p style="font-size: 12px; color: #9CA3AF; margin-top: 30px;">
			No longer want these emails? <a href="%s">Unsubscribe</a>.
		</p>
	`, excerpt, content, courseURL, unsubscribeURL)

	return getEmailTemplate(title, body)
}
