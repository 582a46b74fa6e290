package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/voyago/voyago-server/cmd/models"
	"gorm.io/gorm"
)

// Handler serves the read-only travel catalog. All rows come from seeding;
// there is no write path.
type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/destinations", h.GetDestinations).Methods("GET")
	router.HandleFunc("/destinations/featured", h.GetFeaturedDestinations).Methods("GET")
	router.HandleFunc("/destinations/{id}", h.GetDestination).Methods("GET")
	router.HandleFunc("/experiences", h.GetExperiences).Methods("GET")
	router.HandleFunc("/experiences/trending", h.GetTrendingExperiences).Methods("GET")
	router.HandleFunc("/experiences/{id}", h.GetExperience).Methods("GET")
}

func (h *Handler) GetDestinations(w http.ResponseWriter, r *http.Request) {
	query := h.db.Model(&models.Destination{})
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if country := r.URL.Query().Get("country"); country != "" {
		query = query.Where("country = ?", country)
	}

	var destinations []models.Destination
	if err := query.Order("rating_tenths DESC").Find(&destinations).Error; err != nil {
		http.Error(w, "Error retrieving destinations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(destinations)
}

func (h *Handler) GetFeaturedDestinations(w http.ResponseWriter, r *http.Request) {
	var destinations []models.Destination
	if err := h.db.Where("featured = ?", true).
		Order("rating_tenths DESC").Find(&destinations).Error; err != nil {
		http.Error(w, "Error retrieving destinations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(destinations)
}

func (h *Handler) GetDestination(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	destinationID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid destination ID", http.StatusBadRequest)
		return
	}

	var destination models.Destination
	if err := h.db.First(&destination, destinationID).Error; err != nil {
		http.Error(w, "Destination not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(destination)
}

func (h *Handler) GetExperiences(w http.ResponseWriter, r *http.Request) {
	query := h.db.Model(&models.Experience{})
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if country := r.URL.Query().Get("country"); country != "" {
		query = query.Where("country = ?", country)
	}

	var experiences []models.Experience
	if err := query.Order("rating_tenths DESC").Find(&experiences).Error; err != nil {
		http.Error(w, "Error retrieving experiences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(experiences)
}

func (h *Handler) GetTrendingExperiences(w http.ResponseWriter, r *http.Request) {
	var experiences []models.Experience
	if err := h.db.Where("trending = ?", true).
		Order("rating_tenths DESC").Find(&experiences).Error; err != nil {
		http.Error(w, "Error retrieving experiences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(experiences)
}

func (h *Handler) GetExperience(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	experienceID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid experience ID", http.StatusBadRequest)
		return
	}

	var experience models.Experience
	if err := h.db.First(&experience, experienceID).Error; err != nil {
		http.Error(w, "Experience not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(experience)
}
