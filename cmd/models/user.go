package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// WeekHours maps a lowercase weekday name ("sunday" .. "saturday") to the
// hours of day a teacher can be booked. Stored as a jsonb column.
type WeekHours map[string][]int

func (wh WeekHours) Value() (driver.Value, error) {
	if wh == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(wh)
}

func (wh *WeekHours) Scan(value interface{}) error {
	if value == nil {
		*wh = WeekHours{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into WeekHours", value)
	}
	return json.Unmarshal(raw, wh)
}

// Includes reports whether the given hour is bookable on the given weekday.
func (wh WeekHours) Includes(weekday string, hour int) bool {
	for _, h := range wh[weekday] {
		if h == hour {
			return true
		}
	}
	return false
}

var ErrInvalidHours = errors.New("available hours must use weekday names and hours between 0 and 23")

var weekdayNames = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

// Validate rejects unknown weekday keys and out-of-range hours.
func (wh WeekHours) Validate() error {
	for day, hours := range wh {
		if !weekdayNames[day] {
			return ErrInvalidHours
		}
		for _, h := range hours {
			if h < 0 || h > 23 {
				return ErrInvalidHours
			}
		}
	}
	return nil
}

type User struct {
	gorm.Model
	Name               string         `gorm:"column:name;size:255;not null" json:"name"`
	Email              string         `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	Cellphone          string         `gorm:"column:cellphone;size:20;not null" json:"cellphone"`
	Teacher            bool           `gorm:"column:teacher;not null;default:false" json:"teacher"`
	Coins              int            `gorm:"column:coins;not null;default:100" json:"coins"`
	Courses            pq.StringArray `gorm:"column:courses;type:text[]" json:"courses"`
	AvailableHours     WeekHours      `gorm:"column:available_hours;type:jsonb;default:'{}'" json:"available_hours"`
	AvailableLocations pq.StringArray `gorm:"column:available_locations;type:text[]" json:"available_locations"`

	Reviews []Review `gorm:"foreignKey:UserID" json:"reviews"`

	// Appointments is a lookup over the appointments table (the user can be
	// either participant), not a column.
	Appointments []Appointment `gorm:"-" json:"appointments"`
}

type Review struct {
	gorm.Model
	UserID     uint    `gorm:"column:user_id;not null" json:"user_id"`
	AuthorName string  `gorm:"column:author_name;size:255" json:"author_name"`
	Rating     float64 `gorm:"column:rating" json:"rating"`
	Comment    string  `gorm:"column:comment;type:text" json:"comment"`
}
