package booking

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/voyago/voyago-server/cmd/models"
	"github.com/voyago/voyago-server/cmd/utils"
	"github.com/voyago/voyago-server/events"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

type BookingHandler struct {
	db  *gorm.DB
	pub *events.Publisher
}

func NewBookingHandler(db *gorm.DB, pub *events.Publisher) *BookingHandler {
	return &BookingHandler{db: db, pub: pub}
}

func (h *BookingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/bookings", utils.AuthMiddleware(h.CreateBooking)).Methods("POST")
	router.HandleFunc("/bookings", utils.AuthMiddleware(h.GetBookings)).Methods("GET")
	router.HandleFunc("/bookings/{id}/cancel", utils.AuthMiddleware(h.CancelBooking)).Methods("PATCH")
	router.HandleFunc("/users/{id}/bookings", utils.AuthMiddleware(h.GetUserBookings)).Methods("GET")
}

// CreateBooking books a destination or an experience (exactly one). The unit
// price comes from the catalog row; anything the client sends for price is
// ignored.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var bookingRequest struct {
		DestinationID *uint  `json:"destination_id"`
		ExperienceID  *uint  `json:"experience_id"`
		Date          string `json:"date"`
		Persons       int    `json:"persons"`
	}
	if err := json.NewDecoder(r.Body).Decode(&bookingRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if (bookingRequest.DestinationID == nil) == (bookingRequest.ExperienceID == nil) {
		http.Error(w, "Exactly one of destination_id or experience_id is required", http.StatusBadRequest)
		return
	}

	if bookingRequest.Persons < 1 {
		http.Error(w, "Persons must be at least 1", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", bookingRequest.Date)
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	var unitPriceCents int64
	var itemName string

	if bookingRequest.DestinationID != nil {
		var destination models.Destination
		if err := h.db.First(&destination, *bookingRequest.DestinationID).Error; err != nil {
			http.Error(w, "Destination not found", http.StatusNotFound)
			return
		}
		unitPriceCents = destination.PriceCents
		itemName = destination.Name
	} else {
		var experience models.Experience
		if err := h.db.First(&experience, *bookingRequest.ExperienceID).Error; err != nil {
			http.Error(w, "Experience not found", http.StatusNotFound)
			return
		}
		unitPriceCents = experience.PriceCents
		itemName = experience.Name
	}

	booking := models.Booking{
		UserID:          userID,
		DestinationID:   bookingRequest.DestinationID,
		ExperienceID:    bookingRequest.ExperienceID,
		Date:            date,
		Persons:         bookingRequest.Persons,
		TotalPriceCents: unitPriceCents * int64(bookingRequest.Persons),
		Status:          models.BookingPending,
	}

	if err := h.db.Create(&booking).Error; err != nil {
		http.Error(w, "Error creating booking", http.StatusInternalServerError)
		return
	}

	h.pub.Publish(events.SubjectBookingCreated, booking)

	var user models.User
	if err := h.db.First(&user, userID).Error; err == nil {
		go func() {
			if err := sendBookingConfirmation(user.Email, itemName, booking); err != nil {
				log.Printf("Error sending booking confirmation: %v", err)
			}
		}()
	}

	h.db.Preload("Destination").Preload("Experience").First(&booking, booking.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

// GetBookings lists bookings: admins see everything, everyone else their own.
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	query := h.db.Model(&models.Booking{}).Preload("Destination").Preload("Experience")
	if !user.IsAdmin {
		query = query.Where("user_id = ?", userID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var bookings []models.Booking
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		http.Error(w, "Error retrieving bookings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"bookings":    bookings,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetUserBookings lists one user's bookings; owner or admin only.
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	targetID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	actingUserID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if actingUserID != uint(targetID) {
		var actingUser models.User
		if err := h.db.First(&actingUser, actingUserID).Error; err != nil || !actingUser.IsAdmin {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	var bookings []models.Booking
	if err := h.db.Where("user_id = ?", targetID).
		Preload("Destination").Preload("Experience").
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		http.Error(w, "Error retrieving bookings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

// CancelBooking moves a pending or confirmed booking to cancelled.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var booking models.Booking
	if err := h.db.First(&booking, bookingID).Error; err != nil {
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}

	if booking.UserID != userID {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
		http.Error(w, fmt.Sprintf("Cannot cancel a %s booking", booking.Status), http.StatusBadRequest)
		return
	}

	booking.Status = models.BookingCancelled
	if err := h.db.Save(&booking).Error; err != nil {
		http.Error(w, "Error cancelling booking", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

// sendBookingConfirmation emails a summary of the new booking. Skipped when
// SMTP is not configured.
func sendBookingConfirmation(email, itemName string, booking models.Booking) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	if smtpHost == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your Voyago booking")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your booking for %s on %s (%d persons, total %s) is %s.",
		itemName,
		booking.Date.Format("2006-01-02"),
		booking.Persons,
		utils.FormatCents(booking.TotalPriceCents, 2),
		booking.Status,
	))

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}
	d := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)

	return d.DialAndSend(m)
}
