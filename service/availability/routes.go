package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/teachly/teachly-server/cmd/models"
	"github.com/teachly/teachly-server/cmd/utils"
)

type AvailabilityHandler struct {
	db *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

func (h *AvailabilityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/teachers/{teacherId}/availability", utils.SessionRequired(h.UpdateAvailability)).Methods("PUT")
	router.HandleFunc("/teachers/{teacherId}/slots", h.GetFreeSlots).Methods("GET")
}

// UpdateAvailability replaces a teacher's published courses, weekly hours and
// locations. Only fields present in the body are touched.
func (h *AvailabilityHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	teacherID, err := strconv.ParseUint(vars["teacherId"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Wrong teacher id")
		return
	}

	var updateRequest struct {
		Courses            []string         `json:"courses"`
		AvailableHours     models.WeekHours `json:"available_hours"`
		AvailableLocations []string         `json:"available_locations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if updateRequest.AvailableHours != nil {
		if err := updateRequest.AvailableHours.Validate(); err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var teacher models.User
	if err := h.db.Where("id = ? AND teacher = ?", teacherID, true).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, http.StatusBadRequest, "Teacher not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if updateRequest.Courses != nil {
		teacher.Courses = updateRequest.Courses
	}
	if updateRequest.AvailableHours != nil {
		teacher.AvailableHours = updateRequest.AvailableHours
	}
	if updateRequest.AvailableLocations != nil {
		teacher.AvailableLocations = updateRequest.AvailableLocations
	}

	if err := h.db.Save(&teacher).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error updating availability")
		return
	}

	teacher.Appointments = []models.Appointment{}
	utils.WriteJSON(w, http.StatusOK, teacher)
}

// GetFreeSlots lists the hours of a calendar day that are declared available
// and not yet booked.
func (h *AvailabilityHandler) GetFreeSlots(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	teacherID, err := strconv.ParseUint(vars["teacherId"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Wrong teacher id")
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing date on request")
		return
	}
	day, err := time.ParseInLocation("2006-01-02", dateStr, models.PlatformZone)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	var teacher models.User
	if err := h.db.Where("id = ? AND teacher = ?", teacherID, true).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, http.StatusBadRequest, "Teacher not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var booked []models.Appointment
	dayEnd := day.AddDate(0, 0, 1)
	if err := h.db.Where("teacher_id = ? AND date >= ? AND date < ?", teacherID, day, dayEnd).
		Find(&booked).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving appointments")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"date":       dateStr,
		"free_hours": FreeHours(teacher.AvailableHours, day, booked),
	})
}

// FreeHours subtracts booked hours from the declared hours of day's weekday.
func FreeHours(hours models.WeekHours, day time.Time, booked []models.Appointment) []int {
	taken := make(map[int]bool, len(booked))
	for _, apt := range booked {
		_, hour := models.SlotOf(apt.Date)
		taken[hour] = true
	}

	weekday := models.WeekdayName(day.In(models.PlatformZone).Weekday())
	free := []int{}
	for _, hour := range hours[weekday] {
		if !taken[hour] {
			free = append(free, hour)
		}
	}
	return free
}
