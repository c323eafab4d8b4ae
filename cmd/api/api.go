package api

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/teachly/teachly-server/cmd/utils"
	"github.com/teachly/teachly-server/service/appointment"
	"github.com/teachly/teachly-server/service/availability"
	"github.com/teachly/teachly-server/service/transactions"
	"github.com/teachly/teachly-server/service/user"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewApiServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := NewRouter(s.db)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, handlers.LoggingHandler(os.Stdout, cors(router)))
}

// NewRouter builds the full route table; tests mount it directly.
func NewRouter(db *gorm.DB) *mux.Router {
	router := mux.NewRouter()
	router.Use(utils.RequestID)

	// Every endpoint answers unsupported methods the same way. Subrouters do
	// not inherit this handler, so it is set on both.
	wrongMethod := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusBadRequest, "Wrong request method")
	})
	router.MethodNotAllowedHandler = wrongMethod

	router.HandleFunc("/health", healthHandler(db)).Methods("GET")

	subrouter := router.PathPrefix("/api/v1").Subrouter()
	subrouter.MethodNotAllowedHandler = wrongMethod

	userHandler := user.NewHandler(db)
	userHandler.RegisterRoutes(subrouter)

	appointmentHandler := appointment.NewAppointmentHandler(db)
	appointmentHandler.RegisterRoutes(subrouter)

	availabilityHandler := availability.NewAvailabilityHandler(db)
	availabilityHandler.RegisterRoutes(subrouter)

	transactionHandler := transactions.NewTransactionHandler(db)
	transactionHandler.RegisterRoutes(subrouter)

	return router
}

func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "db": "unhealthy"})
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "db": "healthy"})
	}
}
