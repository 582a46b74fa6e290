package feed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/voyago/voyago-server/cmd/models"
	"github.com/voyago/voyago-server/cmd/utils"
	"github.com/voyago/voyago-server/events"
	"gorm.io/gorm"
)

type PostHandler struct {
	db    *gorm.DB
	cache *Cache
	pub   *events.Publisher
}

func NewPostHandler(db *gorm.DB, cache *Cache, pub *events.Publisher) *PostHandler {
	return &PostHandler{db: db, cache: cache, pub: pub}
}

func (h *PostHandler) RegisterRoutes(router *mux.Router) {
	// Post routes
	router.HandleFunc("/posts", utils.AuthMiddleware(h.CreatePost)).Methods("POST")
	router.HandleFunc("/posts", h.GetPosts).Methods("GET")
	router.HandleFunc("/posts/{id}", h.GetPost).Methods("GET")
	router.HandleFunc("/posts/{id}", utils.AuthMiddleware(h.DeletePost)).Methods("DELETE")
	router.HandleFunc("/users/{id}/posts", h.GetUserPosts).Methods("GET")

	// Like routes
	router.HandleFunc("/posts/{id}/like", utils.AuthMiddleware(h.LikePost)).Methods("POST")
	router.HandleFunc("/posts/{id}/unlike", utils.AuthMiddleware(h.UnlikePost)).Methods("POST")

	// Comment routes
	router.HandleFunc("/posts/{id}/comments", utils.AuthMiddleware(h.AddComment)).Methods("POST")
	router.HandleFunc("/posts/{id}/comments", h.GetComments).Methods("GET")

	// Share routes
	router.HandleFunc("/posts/{id}/share", utils.AuthMiddleware(h.SharePost)).Methods("POST")
}

// CreatePost creates a new post. A JSON body carries image URLs or data URIs
// directly; a multipart body uploads image files instead.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.createPostMultipart(w, r, userID)
		return
	}

	var createRequest struct {
		Content  string   `json:"content"`
		Images   []string `json:"images"`
		IsPublic *bool    `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&createRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	isPublic := true
	if createRequest.IsPublic != nil {
		isPublic = *createRequest.IsPublic
	}

	tx := h.db.Begin()

	post := models.Post{
		UserID:   userID,
		Content:  createRequest.Content,
		IsPublic: isPublic,
	}

	if err := tx.Create(&post).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error creating post", http.StatusInternalServerError)
		return
	}

	for i, url := range createRequest.Images {
		image := models.Image{
			PostID:   post.ID,
			URL:      url,
			Position: i,
		}
		if err := tx.Create(&image).Error; err != nil {
			tx.Rollback()
			http.Error(w, "Error saving image record", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error saving post", http.StatusInternalServerError)
		return
	}

	h.cache.Invalidate(r.Context())
	h.pub.Publish(events.SubjectPostCreated, post)

	h.db.Preload("User").Preload("Images").First(&post, post.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

func (h *PostHandler) createPostMultipart(w http.ResponseWriter, r *http.Request, userID uint) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	tx := h.db.Begin()

	post := models.Post{
		UserID:   userID,
		Content:  r.FormValue("content"),
		IsPublic: r.FormValue("is_public") != "false",
	}

	if err := tx.Create(&post).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error creating post", http.StatusInternalServerError)
		return
	}

	files := r.MultipartForm.File["images"]
	for i, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			tx.Rollback()
			http.Error(w, "Error processing image", http.StatusInternalServerError)
			return
		}
		defer file.Close()

		imageURL, err := utils.SaveImage(file, fileHeader)
		if err != nil {
			tx.Rollback()
			http.Error(w, fmt.Sprintf("Error saving image: %v", err), http.StatusInternalServerError)
			return
		}

		image := models.Image{
			PostID:   post.ID,
			URL:      imageURL,
			Position: i,
		}

		if err := tx.Create(&image).Error; err != nil {
			tx.Rollback()
			utils.DeleteImage(imageURL)
			http.Error(w, "Error saving image record", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error saving post", http.StatusInternalServerError)
		return
	}

	h.cache.Invalidate(r.Context())
	h.pub.Publish(events.SubjectPostCreated, post)

	h.db.Preload("User").Preload("Images").First(&post, post.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// GetPosts retrieves the global feed, newest first, with pagination.
// Page 1 is served from the Redis cache when warm.
func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 10

	if page == 1 {
		if cached, ok := h.cache.GetFirstPage(r.Context()); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(cached)
			return
		}
	}

	var posts []models.Post
	var total int64

	query := h.db.Model(&models.Post{}).Where("is_public = ?", true).
		Preload("User").Preload("Images").Preload("Comments")
	query.Count(&total)

	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").Find(&posts).Error; err != nil {
		http.Error(w, "Error retrieving posts", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"posts":       posts,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
	if err != nil {
		http.Error(w, "Error encoding posts", http.StatusInternalServerError)
		return
	}

	if page == 1 {
		h.cache.SetFirstPage(r.Context(), payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// GetUserPosts retrieves a single author's posts, newest first.
func (h *PostHandler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 10

	var posts []models.Post
	var total int64

	query := h.db.Model(&models.Post{}).Where("user_id = ?", userID).
		Preload("User").Preload("Images").Preload("Comments")
	query.Count(&total)

	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").Find(&posts).Error; err != nil {
		http.Error(w, "Error retrieving posts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"posts":       posts,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetPost retrieves a specific post with its images and comments
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var post models.Post
	if err := h.db.Preload("User").Preload("Images").Preload("Comments.User").
		First(&post, postID).Error; err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// DeletePost deletes a post and its images, likes, comments and shares.
// Only the author may delete.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	if post.UserID != userID {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tx := h.db.Begin()

	if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error deleting likes", http.StatusInternalServerError)
		return
	}

	if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error deleting comments", http.StatusInternalServerError)
		return
	}

	if err := tx.Where("post_id = ?", postID).Delete(&models.Share{}).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error deleting shares", http.StatusInternalServerError)
		return
	}

	if err := tx.Where("post_id = ?", postID).Delete(&models.Image{}).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error deleting images", http.StatusInternalServerError)
		return
	}

	if err := tx.Delete(&post).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error deleting post", http.StatusInternalServerError)
		return
	}

	tx.Commit()

	h.cache.Invalidate(r.Context())
	h.pub.Publish(events.SubjectPostDeleted, map[string]uint{"post_id": uint(postID)})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Post deleted successfully",
	})
}

// AddComment creates a comment and increments the parent post's comment
// counter in the same transaction. A missing post is a 404, never a comment
// with a dangling post id.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var commentRequest struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&commentRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if commentRequest.Content == "" {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}

	tx := h.db.Begin()

	var post models.Post
	if err := tx.First(&post, postID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	comment := models.Comment{
		UserID:  userID,
		PostID:  uint(postID),
		Content: commentRequest.Content,
	}

	if err := tx.Create(&comment).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error creating comment", http.StatusInternalServerError)
		return
	}

	if err := tx.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating comments count", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error saving comment", http.StatusInternalServerError)
		return
	}

	h.cache.Invalidate(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comment)
}

// GetComments retrieves comments for a post, oldest first, with pagination.
func (h *PostHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 10

	var comments []models.Comment
	var total int64

	query := h.db.Model(&models.Comment{}).Where("post_id = ?", postID).Preload("User")
	query.Count(&total)

	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		http.Error(w, "Error retrieving comments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"comments":    comments,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// LikePost records a like and increments the counter.
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tx := h.db.Begin()

	var post models.Post
	if err := tx.First(&post, postID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	var existingLike models.Like
	if err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existingLike).Error; err == nil {
		tx.Rollback()
		http.Error(w, "Post already liked", http.StatusConflict)
		return
	}

	like := models.Like{
		UserID: userID,
		PostID: uint(postID),
	}

	if err := tx.Create(&like).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error liking post", http.StatusInternalServerError)
		return
	}

	if err := tx.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating likes count", http.StatusInternalServerError)
		return
	}

	tx.Commit()

	h.cache.Invalidate(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Post liked successfully",
	})
}

// UnlikePost removes a like and decrements the counter.
func (h *PostHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tx := h.db.Begin()

	result := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
	if result.Error != nil {
		tx.Rollback()
		http.Error(w, "Error unliking post", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		tx.Rollback()
		http.Error(w, "Post was not liked", http.StatusBadRequest)
		return
	}

	if err := tx.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("likes_count", gorm.Expr("likes_count - ?", 1)).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating likes count", http.StatusInternalServerError)
		return
	}

	tx.Commit()

	h.cache.Invalidate(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Post unliked successfully",
	})
}

// SharePost records a share and increments the counter.
func (h *PostHandler) SharePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var shareRequest struct {
		ShareText string `json:"share_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&shareRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx := h.db.Begin()

	var post models.Post
	if err := tx.First(&post, postID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	share := models.Share{
		UserID:    userID,
		PostID:    uint(postID),
		ShareText: shareRequest.ShareText,
	}

	if err := tx.Create(&share).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error sharing post", http.StatusInternalServerError)
		return
	}

	if err := tx.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("shares_count", gorm.Expr("shares_count + ?", 1)).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating shares count", http.StatusInternalServerError)
		return
	}

	tx.Commit()

	h.cache.Invalidate(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(share)
}
