package models

import (
	"time"

	"gorm.io/gorm"
)

// Appointment is a single row referencing both participants. The unique index
// on (teacher_id, date) makes a teacher's slot bookable at most once, even
// under concurrent requests.
type Appointment struct {
	gorm.Model
	Date            time.Time `gorm:"column:date;not null;uniqueIndex:idx_teacher_slot" json:"date"`
	TeacherID       uint      `gorm:"column:teacher_id;not null;uniqueIndex:idx_teacher_slot" json:"teacher_id"`
	TeacherName     string    `gorm:"column:teacher_name;size:255;not null" json:"teacher_name"`
	StudentID       uint      `gorm:"column:student_id;not null" json:"student_id"`
	StudentName     string    `gorm:"column:student_name;size:255;not null" json:"student_name"`
	Course          string    `gorm:"column:course;size:255;not null" json:"course"`
	Location        string    `gorm:"column:location;size:255;not null" json:"location"`
	AppointmentLink string    `gorm:"column:appointment_link;size:500" json:"appointment_link"`
}

// CoinTransaction is one side of a booking's coin movement, written in the
// same transaction as the appointment itself.
type CoinTransaction struct {
	gorm.Model
	UserID        uint   `gorm:"column:user_id;not null;index" json:"user_id"`
	Delta         int    `gorm:"column:delta;not null" json:"delta"`
	Purpose       string `gorm:"column:purpose;size:255;not null" json:"purpose"`
	AppointmentID uint   `gorm:"column:appointment_id" json:"appointment_id"`
}
