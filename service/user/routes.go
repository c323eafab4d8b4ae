package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/teachly/teachly-server/cmd/models"
	"github.com/teachly/teachly-server/cmd/utils"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// RegisterRoutes sets up all user-related routes. POST /courses is a legacy
// alias of POST /users kept for old clients.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", h.CreateUser).Methods("POST")
	router.HandleFunc("/users", h.GetUserByQuery).Methods("GET")
	router.HandleFunc("/users/email/{email}", h.GetUserByEmail).Methods("GET")
	router.HandleFunc("/users/{id}", h.GetUser).Methods("GET")
	router.HandleFunc("/courses", h.CreateUser).Methods("POST")
	router.HandleFunc("/courses", h.GetUsersByCourse).Methods("GET")
	router.HandleFunc("/teachers", h.GetTeachers).Methods("GET")
	router.HandleFunc("/teachers/{id}", h.GetTeacher).Methods("GET")
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var registerRequest struct {
		Name               string           `json:"name"`
		Email              string           `json:"email"`
		Cellphone          string           `json:"cellphone"`
		Teacher            bool             `json:"teacher"`
		Courses            []string         `json:"courses"`
		AvailableHours     models.WeekHours `json:"available_hours"`
		AvailableLocations []string         `json:"available_locations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&registerRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if registerRequest.Name == "" || registerRequest.Email == "" || registerRequest.Cellphone == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing body parameter")
		return
	}
	if registerRequest.Teacher {
		if len(registerRequest.Courses) == 0 ||
			len(registerRequest.AvailableHours) == 0 ||
			len(registerRequest.AvailableLocations) == 0 {
			utils.WriteError(w, http.StatusBadRequest, "Missing body parameter")
			return
		}
		if err := registerRequest.AvailableHours.Validate(); err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	// Emails are stored lowercase so uniqueness is case-insensitive.
	email := strings.ToLower(registerRequest.Email)

	var existing models.User
	if result := h.db.Where("email = ?", email).First(&existing); !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		if result.Error != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Database error")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, fmt.Sprintf("E-mail %s already exists", email))
		return
	}

	user := models.User{
		Name:               registerRequest.Name,
		Email:              email,
		Cellphone:          registerRequest.Cellphone,
		Teacher:            registerRequest.Teacher,
		Coins:              100,
		Courses:            registerRequest.Courses,
		AvailableHours:     registerRequest.AvailableHours,
		AvailableLocations: registerRequest.AvailableLocations,
	}
	if user.AvailableHours == nil {
		user.AvailableHours = models.WeekHours{}
	}

	if err := h.db.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint") {
			log.Printf("Registration attempt with duplicate email %s", email)
			utils.WriteError(w, http.StatusBadRequest, fmt.Sprintf("E-mail %s already exists", email))
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	user.Appointments = []models.Appointment{}
	utils.WriteJSON(w, http.StatusOK, user)
}

// GetUserByQuery serves GET /users?_id= and GET /users?email=.
func (h *Handler) GetUserByQuery(w http.ResponseWriter, r *http.Request) {
	if rawID := r.URL.Query().Get("_id"); rawID != "" {
		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Wrong user id")
			return
		}
		h.respondWithUser(w, "id = ?", id)
		return
	}
	if email := r.URL.Query().Get("email"); email != "" {
		h.respondWithUser(w, "email = ?", strings.ToLower(email))
		return
	}
	utils.WriteError(w, http.StatusBadRequest, "Missing _id on request")
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Wrong user id")
		return
	}
	h.respondWithUser(w, "id = ?", id)
}

func (h *Handler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.respondWithUser(w, "email = ?", strings.ToLower(vars["email"]))
}

func (h *Handler) respondWithUser(w http.ResponseWriter, condition string, value interface{}) {
	var user models.User
	if err := h.db.Preload("Reviews").Where(condition, value).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, http.StatusBadRequest, "User not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := h.loadAppointments(&user); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving appointments")
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}

// loadAppointments fills the computed appointment list: the user may appear as
// either participant.
func (h *Handler) loadAppointments(user *models.User) error {
	user.Appointments = []models.Appointment{}
	return h.db.
		Where("teacher_id = ? OR student_id = ?", user.ID, user.ID).
		Order("date").
		Find(&user.Appointments).Error
}

func (h *Handler) GetUsersByCourse(w http.ResponseWriter, r *http.Request) {
	course := r.URL.Query().Get("courses")
	if course == "" {
		utils.WriteError(w, http.StatusBadRequest, "Missing courses name on request")
		return
	}

	var users []models.User
	if err := h.db.Where("? = ANY(courses)", course).Find(&users).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(users) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "Courses not found")
		return
	}

	for i := range users {
		users[i].Appointments = []models.Appointment{}
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) GetTeachers(w http.ResponseWriter, r *http.Request) {
	var teachers []models.User
	query := h.db.Where("teacher = ?", true)
	if course := r.URL.Query().Get("course"); course != "" {
		query = query.Where("? = ANY(courses)", course)
	}
	if err := query.Find(&teachers).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving teachers")
		return
	}

	for i := range teachers {
		teachers[i].Appointments = []models.Appointment{}
	}
	utils.WriteJSON(w, http.StatusOK, teachers)
}

func (h *Handler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Wrong teacher id")
		return
	}

	var teacher models.User
	if err := h.db.Preload("Reviews").Where("id = ? AND teacher = ?", id, true).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Teacher with id %d not found", id))
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := h.loadAppointments(&teacher); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving appointments")
		return
	}

	utils.WriteJSON(w, http.StatusOK, teacher)
}
