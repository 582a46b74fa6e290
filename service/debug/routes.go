package debug

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/voyago/voyago-server/cmd/models"
	"gorm.io/gorm"
)

// Handler exposes unauthenticated introspection endpoints. The API server
// only registers these outside production; password hashes are never
// serialized (the User model excludes them from JSON).
type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/debug/users", h.GetUsers).Methods("GET")
	router.HandleFunc("/debug/db", h.GetDatabase).Methods("GET")
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.db.Find(&users).Error; err != nil {
		http.Error(w, "Error retrieving users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// GetDatabase dumps row counts plus the full content of every table.
func (h *Handler) GetDatabase(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	var follows []models.Follow
	var posts []models.Post
	var comments []models.Comment
	var bookings []models.Booking
	var destinations []models.Destination
	var experiences []models.Experience

	h.db.Find(&users)
	h.db.Find(&follows)
	h.db.Find(&posts)
	h.db.Find(&comments)
	h.db.Find(&bookings)
	h.db.Find(&destinations)
	h.db.Find(&experiences)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"counts": map[string]int{
			"users":        len(users),
			"follows":      len(follows),
			"posts":        len(posts),
			"comments":     len(comments),
			"bookings":     len(bookings),
			"destinations": len(destinations),
			"experiences":  len(experiences),
		},
		"users":        users,
		"follows":      follows,
		"posts":        posts,
		"comments":     comments,
		"bookings":     bookings,
		"destinations": destinations,
		"experiences":  experiences,
	})
}
