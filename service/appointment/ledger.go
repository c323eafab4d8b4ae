package appointment

import (
	"strconv"
	"strings"

	"github.com/teachly/teachly-server/cmd/models"
	"gorm.io/gorm"
)

// commitBooking applies a validated appointment as one transaction: the
// appointment row, both coin movements and their audit rows. Either all of it
// lands or none of it does. The guarded debit and the (teacher_id, date)
// unique index catch the races the validator cannot see.
func commitBooking(db *gorm.DB, apt *models.Appointment) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Create(apt).Error; err != nil {
		tx.Rollback()
		if isDuplicateKey(err) {
			return ErrSlotConflict
		}
		return err
	}

	debit := tx.Model(&models.User{}).
		Where("id = ? AND coins > 0", apt.StudentID).
		UpdateColumn("coins", gorm.Expr("coins - 1"))
	if debit.Error != nil {
		tx.Rollback()
		return debit.Error
	}
	if debit.RowsAffected == 0 {
		tx.Rollback()
		return ErrInsufficientFunds
	}

	credit := tx.Model(&models.User{}).
		Where("id = ?", apt.TeacherID).
		UpdateColumn("coins", gorm.Expr("coins + 1"))
	if credit.Error != nil {
		tx.Rollback()
		return credit.Error
	}
	if credit.RowsAffected == 0 {
		tx.Rollback()
		return &NotFoundError{Role: "Teacher", Name: apt.TeacherName, ID: strconv.FormatUint(uint64(apt.TeacherID), 10)}
	}

	movements := []models.CoinTransaction{
		{UserID: apt.StudentID, Delta: -1, Purpose: "Appointment booked", AppointmentID: apt.ID},
		{UserID: apt.TeacherID, Delta: 1, Purpose: "Appointment taught", AppointmentID: apt.ID},
	}
	if err := tx.Create(&movements).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
