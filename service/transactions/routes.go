package transactions

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/teachly/teachly-server/cmd/models"
	"github.com/teachly/teachly-server/cmd/utils"
)

// PaginatedResponse is the standard paginated API response structure.
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta contains pagination metadata.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

type TransactionHandler struct {
	db *gorm.DB
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{db: db}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userId}/transactions", utils.SessionRequired(h.GetUserTransactions)).Methods("GET")
}

// ParsePaginationParams extracts and validates pagination parameters.
func ParsePaginationParams(r *http.Request) (page, perPage int) {
	query := r.URL.Query()

	page = 1
	if parsed, err := strconv.Atoi(query.Get("page")); err == nil && parsed > 0 {
		page = parsed
	}

	perPage = 10
	if parsed, err := strconv.Atoi(query.Get("per_page")); err == nil && parsed > 0 {
		perPage = parsed
		if perPage > 100 {
			perPage = 100
		}
	}
	return page, perPage
}

// GetUserTransactions lists a user's coin movements, newest first.
func (h *TransactionHandler) GetUserTransactions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["userId"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Wrong user id")
		return
	}

	page, perPage := ParsePaginationParams(r)

	query := h.db.Model(&models.CoinTransaction{}).Where("user_id = ?", userID)

	var total int64
	query.Count(&total)

	var movements []models.CoinTransaction
	if err := query.Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").Find(&movements).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving transactions")
		return
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	utils.WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data: movements,
		Pagination: PaginationMeta{
			CurrentPage: page,
			PerPage:     perPage,
			TotalItems:  total,
			TotalPages:  totalPages,
			HasPrevious: page > 1,
			HasNext:     page < totalPages,
		},
	})
}
