package follower

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/voyago/voyago-server/cmd/models"
	"github.com/voyago/voyago-server/cmd/utils"
	"github.com/voyago/voyago-server/events"
	"gorm.io/gorm"
)

type Handler struct {
	db  *gorm.DB
	pub *events.Publisher
}

func NewHandler(db *gorm.DB, pub *events.Publisher) *Handler {
	return &Handler{db: db, pub: pub}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/followers", utils.AuthMiddleware(h.Follow)).Methods("POST")
	router.HandleFunc("/followers/{followerId}/{followingId}", utils.AuthMiddleware(h.Unfollow)).Methods("DELETE")
	router.HandleFunc("/users/{id}/followers", h.GetFollowers).Methods("GET")
	router.HandleFunc("/users/{id}/following", h.GetFollowing).Methods("GET")
	router.HandleFunc("/users/{followerId}/following/{followingId}", h.IsFollowing).Methods("GET")
}

// Follow creates a directed edge from the session user to following_id.
// Self-follow is rejected and a duplicate edge answers 409, backed by the
// unique pair index so a race cannot slip a second row in.
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var followRequest struct {
		FollowingID uint `json:"following_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&followRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if followRequest.FollowingID == 0 {
		http.Error(w, "following_id is required", http.StatusBadRequest)
		return
	}

	if followRequest.FollowingID == followerID {
		http.Error(w, "Cannot follow yourself", http.StatusBadRequest)
		return
	}

	var target models.User
	if err := h.db.First(&target, followRequest.FollowingID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var existingFollow models.Follow
	if err := h.db.Where("follower_id = ? AND following_id = ?", followerID, followRequest.FollowingID).
		First(&existingFollow).Error; err == nil {
		http.Error(w, "Already following this user", http.StatusConflict)
		return
	}

	follow := models.Follow{
		FollowerID:  followerID,
		FollowingID: followRequest.FollowingID,
	}

	if err := h.db.Create(&follow).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") || strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "Already following this user", http.StatusConflict)
			return
		}
		http.Error(w, "Error creating follow", http.StatusInternalServerError)
		return
	}

	h.pub.Publish(events.SubjectFollowerAdded, follow)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(follow)
}

// Unfollow removes the edge. Deleting an absent edge still succeeds, so
// retries after a dropped response stay harmless.
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	followerID, err := strconv.ParseUint(vars["followerId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid follower ID", http.StatusBadRequest)
		return
	}
	followingID, err := strconv.ParseUint(vars["followingId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid following ID", http.StatusBadRequest)
		return
	}

	actingUserID, err := utils.GetUserIDFromContext(r)
	if err != nil || actingUserID != uint(followerID) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result := h.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		http.Error(w, "Error removing follow", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected > 0 {
		h.pub.Publish(events.SubjectFollowerRemoved, map[string]interface{}{
			"follower_id":  followerID,
			"following_id": followingID,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Unfollowed successfully",
	})
}

// GetFollowers returns the resolved user records following the given user.
func (h *Handler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var follows []models.Follow
	if err := h.db.Where("following_id = ?", userID).Preload("Follower").Find(&follows).Error; err != nil {
		http.Error(w, "Error retrieving followers", http.StatusInternalServerError)
		return
	}

	followers := make([]*models.User, 0, len(follows))
	for _, f := range follows {
		if f.Follower != nil {
			followers = append(followers, f.Follower)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"followers": followers,
		"total":     len(followers),
	})
}

// GetFollowing returns the resolved user records the given user follows.
func (h *Handler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var follows []models.Follow
	if err := h.db.Where("follower_id = ?", userID).Preload("Following").Find(&follows).Error; err != nil {
		http.Error(w, "Error retrieving following", http.StatusInternalServerError)
		return
	}

	following := make([]*models.User, 0, len(follows))
	for _, f := range follows {
		if f.Following != nil {
			following = append(following, f.Following)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"following": following,
		"total":     len(following),
	})
}

// IsFollowing answers the point lookup "is A following B".
func (h *Handler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	followerID, err := strconv.ParseUint(vars["followerId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid follower ID", http.StatusBadRequest)
		return
	}
	followingID, err := strconv.ParseUint(vars["followingId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid following ID", http.StatusBadRequest)
		return
	}

	var follow models.Follow
	err = h.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Error checking follow state", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{
		"following": err == nil,
	})
}
