package appointment

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/teachly/teachly-server/cmd/models"
	"github.com/teachly/teachly-server/cmd/utils"
)

type AppointmentHandler struct {
	db *gorm.DB

	// now is swapped out in tests so the past-date rule is deterministic.
	now func() time.Time
}

func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{db: db, now: time.Now}
}

func (h *AppointmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/appointments", utils.SessionRequired(h.BookAppointment)).Methods("POST")
	router.HandleFunc("/appointments/teacher/{teacherId}", h.GetTeacherAppointments).Methods("GET")
	router.HandleFunc("/appointments/student/{studentId}", h.GetStudentAppointments).Methods("GET")
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Everything checkable without the directory happens before any read.
	slot, err := ParseRequest(req, h.now())
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	teacher, err := h.loadParticipant(slot.TeacherID, true)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving teacher")
		return
	}
	student, err := h.loadParticipant(slot.StudentID, false)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving student")
		return
	}

	apt, err := Validate(req, slot, teacher, student)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := commitBooking(h.db, apt); err != nil {
		if errors.Is(err, ErrSlotConflict) || errors.Is(err, ErrInsufficientFunds) {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("booking commit failed: %v", err)
		utils.WriteError(w, http.StatusInternalServerError, "Error creating appointment")
		return
	}

	go func() {
		if err := sendBookingEmails(apt, teacher.Email, student.Email); err != nil {
			log.Printf("Error sending booking confirmation: %v", err)
		}
	}()

	utils.WriteJSON(w, http.StatusOK, apt)
}

// loadParticipant fetches one user; the teacher also gets its appointment list
// loaded for the conflict scan. A missing record comes back as nil, nil so the
// validator can name the missing party.
func (h *AppointmentHandler) loadParticipant(id uint, withAppointments bool) (*models.User, error) {
	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if withAppointments {
		if err := h.db.Where("teacher_id = ?", id).Find(&user.Appointments).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func (h *AppointmentHandler) GetTeacherAppointments(w http.ResponseWriter, r *http.Request) {
	h.listAppointments(w, r, "teacherId", "teacher_id")
}

func (h *AppointmentHandler) GetStudentAppointments(w http.ResponseWriter, r *http.Request) {
	h.listAppointments(w, r, "studentId", "student_id")
}

func (h *AppointmentHandler) listAppointments(w http.ResponseWriter, r *http.Request, pathVar, column string) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars[pathVar], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Wrong teacher or student id")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 100

	query := h.db.Model(&models.Appointment{}).Where(column+" = ?", id)

	var total int64
	query.Count(&total)

	var appointments []models.Appointment
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("date DESC").Find(&appointments).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving appointments")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
		"total_pages":  (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
