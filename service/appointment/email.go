package appointment

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/teachly/teachly-server/cmd/models"
)

// sendBookingEmails mails both participants after a successful booking. A
// missing SMTP_HOST disables mailing entirely (local and test runs).
func sendBookingEmails(apt *models.Appointment, teacherEmail, studentEmail string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		return nil
	}
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}

	when := apt.Date.In(models.PlatformZone).Format("Monday, 02 Jan 2006 at 15:04")
	body := fmt.Sprintf(
		"Your %s class at %s is confirmed for %s.\nTeacher: %s\nStudent: %s\n",
		apt.Course, apt.Location, when, apt.TeacherName, apt.StudentName,
	)
	if apt.AppointmentLink != "" {
		body += fmt.Sprintf("Meeting link: %s\n", apt.AppointmentLink)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", teacherEmail, studentEmail)
	m.SetHeader("Subject", "Appointment confirmed")
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
