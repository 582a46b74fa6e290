package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/voyago-server/cmd/models"
	"github.com/voyago/voyago-server/cmd/utils"
	"github.com/voyago/voyago-server/events"
	"github.com/voyago/voyago-server/service/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Image{},
		&models.Comment{}, &models.Like{}, &models.Share{},
	))
	return db
}

func setupRouter(db *gorm.DB) *mux.Router {
	router := mux.NewRouter()
	NewPostHandler(db, nil, &events.Publisher{}).RegisterRoutes(router.PathPrefix("/api").Subrouter())
	return router
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func sessionFor(t *testing.T, userID uint) *http.Cookie {
	t.Helper()
	token, err := user.GenerateJWT(userID, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookie, Value: token}
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreatePostAndListByUser(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")
	session := sessionFor(t, alice.ID)

	rr := doJSON(t, router, "POST", "/api/posts", map[string]interface{}{
		"content": "hello",
	}, session)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, router, "GET", fmt.Sprintf("/api/users/%d/posts", alice.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Posts []models.Post `json:"posts"`
		Total int64         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, "hello", page.Posts[0].Content)
	assert.Equal(t, 0, page.Posts[0].CommentsCount)
	assert.Equal(t, alice.ID, page.Posts[0].UserID)
}

func TestCreatePostWithImages(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")

	rr := doJSON(t, router, "POST", "/api/posts", map[string]interface{}{
		"content": "sunset at the caldera",
		"images": []string{
			"https://images.voyago.app/p/1.jpg",
			"https://images.voyago.app/p/2.jpg",
		},
	}, sessionFor(t, alice.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var post models.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
	require.Len(t, post.Images, 2)
	assert.Equal(t, 0, post.Images[0].Position)
	assert.Equal(t, 1, post.Images[1].Position)
}

func TestCreatePostAcceptsEmptyContent(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")

	rr := doJSON(t, router, "POST", "/api/posts", map[string]interface{}{
		"content": "",
	}, sessionFor(t, alice.ID))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreatePostRequiresSession(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	rr := doJSON(t, router, "POST", "/api/posts", map[string]interface{}{"content": "x"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCommentCounterInvariant(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	post := models.Post{UserID: alice.ID, Content: "ask me anything", IsPublic: true}
	require.NoError(t, db.Create(&post).Error)

	for i := 1; i <= 3; i++ {
		rr := doJSON(t, router, "POST", fmt.Sprintf("/api/posts/%d/comments", post.ID),
			map[string]string{"content": fmt.Sprintf("comment %d", i)}, sessionFor(t, bob.ID))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	rr := doJSON(t, router, "GET", fmt.Sprintf("/api/posts/%d", post.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var fetched models.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, 3, fetched.CommentsCount)

	var commentCount int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)
	assert.Equal(t, int64(3), commentCount)

	// Oldest first
	rr = doJSON(t, router, "GET", fmt.Sprintf("/api/posts/%d/comments", post.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Comments []models.Comment `json:"comments"`
		Total    int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Equal(t, int64(3), page.Total)
	assert.Equal(t, "comment 1", page.Comments[0].Content)
	assert.Equal(t, "comment 3", page.Comments[2].Content)
}

func TestCommentOnMissingPost(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")

	rr := doJSON(t, router, "POST", "/api/posts/999/comments",
		map[string]string{"content": "into the void"}, sessionFor(t, alice.ID))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count, "no orphan comment may be created")
}

func TestCommentRequiresContent(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")
	post := models.Post{UserID: alice.ID, Content: "hi", IsPublic: true}
	require.NoError(t, db.Create(&post).Error)

	rr := doJSON(t, router, "POST", fmt.Sprintf("/api/posts/%d/comments", post.ID),
		map[string]string{"content": ""}, sessionFor(t, alice.ID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLikeUnlikeCounters(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := models.Post{UserID: alice.ID, Content: "like me", IsPublic: true}
	require.NoError(t, db.Create(&post).Error)

	session := sessionFor(t, bob.ID)

	rr := doJSON(t, router, "POST", fmt.Sprintf("/api/posts/%d/like", post.ID), nil, session)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var fetched models.Post
	require.NoError(t, db.First(&fetched, post.ID).Error)
	assert.Equal(t, 1, fetched.LikesCount)

	// Second like from the same user conflicts
	rr = doJSON(t, router, "POST", fmt.Sprintf("/api/posts/%d/like", post.ID), nil, session)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSON(t, router, "POST", fmt.Sprintf("/api/posts/%d/unlike", post.ID), nil, session)
	require.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, db.First(&fetched, post.ID).Error)
	assert.Equal(t, 0, fetched.LikesCount)

	// Unlike without a like
	rr = doJSON(t, router, "POST", fmt.Sprintf("/api/posts/%d/unlike", post.ID), nil, session)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestShareIncrementsCounter(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := models.Post{UserID: alice.ID, Content: "share me", IsPublic: true}
	require.NoError(t, db.Create(&post).Error)

	rr := doJSON(t, router, "POST", fmt.Sprintf("/api/posts/%d/share", post.ID),
		map[string]string{"share_text": "look at this"}, sessionFor(t, bob.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var fetched models.Post
	require.NoError(t, db.First(&fetched, post.ID).Error)
	assert.Equal(t, 1, fetched.SharesCount)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := models.Post{UserID: alice.ID, Content: "mine", IsPublic: true}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&models.Comment{UserID: bob.ID, PostID: post.ID, Content: "nice"}).Error)

	// Bob cannot delete Alice's post
	rr := doJSON(t, router, "DELETE", fmt.Sprintf("/api/posts/%d", post.ID), nil, sessionFor(t, bob.ID))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, router, "DELETE", fmt.Sprintf("/api/posts/%d", post.ID), nil, sessionFor(t, alice.ID))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, "GET", fmt.Sprintf("/api/posts/%d", post.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var commentCount int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)
	assert.Equal(t, int64(0), commentCount, "comments are removed with the post")
}

func TestGetPostsNewestFirst(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		post := models.Post{UserID: alice.ID, Content: fmt.Sprintf("post %d", i), IsPublic: true}
		require.NoError(t, db.Create(&post).Error)
		require.NoError(t, db.Model(&post).UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	rr := doJSON(t, router, "GET", "/api/posts", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Posts []models.Post `json:"posts"`
		Total int64         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Equal(t, int64(3), page.Total)
	assert.Equal(t, "post 2", page.Posts[0].Content)
	assert.Equal(t, "post 0", page.Posts[2].Content)
}

func TestPrivatePostsHiddenFromGlobalFeed(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	db := setupTestDB(t)
	router := setupRouter(db)

	alice := createUser(t, db, "alice")
	require.NoError(t, db.Create(&models.Post{UserID: alice.ID, Content: "public", IsPublic: true}).Error)
	require.NoError(t, db.Create(&models.Post{UserID: alice.ID, Content: "draft", IsPublic: false}).Error)

	rr := doJSON(t, router, "GET", "/api/posts", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Posts []models.Post `json:"posts"`
		Total int64         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, "public", page.Posts[0].Content)
}
