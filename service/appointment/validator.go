package appointment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teachly/teachly-server/cmd/models"
)

var (
	ErrMissingField      = errors.New("Missing body parameter")
	ErrInvalidIdentifier = errors.New("Wrong teacher or student id")
	ErrInvalidDate       = errors.New("Invalid appointment date")
	ErrPastDate          = errors.New("Cannot book an appointment in the past")
	ErrNotATeacher       = errors.New("Requested teacher is not a teacher")
	ErrInsufficientFunds = errors.New("Student does not have enough coins")
	ErrSlotUnavailable   = errors.New("Teacher is not available at the requested time")
	ErrLocationDenied    = errors.New("Teacher does not attend the requested location")
	ErrSlotConflict      = errors.New("Teacher already has an appointment at the requested time")
)

// NotFoundError names the missing participant in the rejection message.
type NotFoundError struct {
	Role string
	Name string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s with id %s does not exist", e.Role, e.Name, e.ID)
}

// BookingRequest mirrors the POST /appointments body. Identifiers arrive as
// strings and are validated before any directory read happens.
type BookingRequest struct {
	Date            string `json:"date"`
	TeacherName     string `json:"teacher_name"`
	TeacherID       string `json:"teacher_id"`
	StudentName     string `json:"student_name"`
	StudentID       string `json:"student_id"`
	Course          string `json:"course"`
	Location        string `json:"location"`
	AppointmentLink string `json:"appointment_link"`
}

// Slot is the parsed, directory-independent part of a booking request.
type Slot struct {
	TeacherID uint
	StudentID uint
	Date      time.Time
}

// ParseRequest runs the checks that need no directory access: field presence,
// identifier well-formedness and the past-date rule. The current time is a
// parameter so the date rule is testable. AppointmentLink is deliberately not
// required; it defaults to the empty string.
func ParseRequest(req BookingRequest, now time.Time) (Slot, error) {
	if req.Date == "" || req.TeacherName == "" || req.TeacherID == "" ||
		req.StudentName == "" || req.StudentID == "" ||
		req.Course == "" || req.Location == "" {
		return Slot{}, ErrMissingField
	}

	teacherID, err := parseID(req.TeacherID)
	if err != nil {
		return Slot{}, ErrInvalidIdentifier
	}
	studentID, err := parseID(req.StudentID)
	if err != nil {
		return Slot{}, ErrInvalidIdentifier
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return Slot{}, ErrInvalidDate
	}

	// Compare calendar dates in the platform zone. A booking later today is
	// fine; yesterday or earlier is not.
	ry, rm, rd := date.In(models.PlatformZone).Date()
	ny, nm, nd := now.In(models.PlatformZone).Date()
	requested := time.Date(ry, rm, rd, 0, 0, 0, 0, models.PlatformZone)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, models.PlatformZone)
	if requested.Before(today) {
		return Slot{}, ErrPastDate
	}

	return Slot{TeacherID: teacherID, StudentID: studentID, Date: date}, nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidIdentifier
	}
	return uint(id), nil
}

// Validate runs the directory-dependent checks in order, first failure wins,
// and returns the normalized appointment on success. teacher and student are
// nil when the lookup found nothing; teacher.Appointments must already be
// loaded for the conflict scan. Validate never touches storage.
func Validate(req BookingRequest, slot Slot, teacher, student *models.User) (*models.Appointment, error) {
	if teacher == nil {
		return nil, &NotFoundError{Role: "Teacher", Name: req.TeacherName, ID: req.TeacherID}
	}
	if student == nil {
		return nil, &NotFoundError{Role: "Student", Name: req.StudentName, ID: req.StudentID}
	}
	if !teacher.Teacher {
		return nil, ErrNotATeacher
	}

	if student.Coins < 1 {
		return nil, ErrInsufficientFunds
	}

	weekday, hour := models.SlotOf(slot.Date)
	if !teacher.AvailableHours.Includes(weekday, hour) {
		return nil, ErrSlotUnavailable
	}
	if !containsFold(teacher.AvailableLocations, req.Location) {
		return nil, ErrLocationDenied
	}

	for _, existing := range teacher.Appointments {
		if existing.Date.Equal(slot.Date) {
			return nil, ErrSlotConflict
		}
	}

	return &models.Appointment{
		Date:            slot.Date,
		TeacherID:       slot.TeacherID,
		TeacherName:     req.TeacherName,
		StudentID:       slot.StudentID,
		StudentName:     req.StudentName,
		Course:          req.Course,
		Location:        req.Location,
		AppointmentLink: req.AppointmentLink,
	}, nil
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
