package client

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/voyago-server/cmd/api"
	"github.com/voyago/voyago-server/cmd/models"
	"github.com/voyago/voyago-server/db"
	"github.com/voyago/voyago-server/events"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// startTestServer runs the full API stack over an in-memory database.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("SECRET_KEY", "test-secret")

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{}, &models.Follow{}, &models.Post{}, &models.Image{},
		&models.Comment{}, &models.Like{}, &models.Share{},
		&models.Destination{}, &models.Experience{}, &models.Booking{},
	))
	require.NoError(t, db.SeedCatalog(gdb))

	server := httptest.NewServer(api.NewApiServer("", gdb, &events.Publisher{}).Router())
	t.Cleanup(server.Close)
	return server
}

func TestRegisterLoginPostScenario(t *testing.T) {
	server := startTestServer(t)

	c, err := New(server.URL)
	require.NoError(t, err)

	registered, err := c.Register("alice", "alice@example.com", "password1")
	require.NoError(t, err)
	require.NotZero(t, registered.UserID)

	login, err := c.Login("alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, login.UserID)

	// The session cookie from login must carry the next calls
	current, err := c.CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "alice", current.Username)

	_, err = c.CreatePost("hello", nil, true)
	require.NoError(t, err)

	page, err := c.GetUserPosts(registered.UserID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "hello", page.Posts[0].Content)
	assert.Equal(t, 0, page.Posts[0].CommentsCount)
}

func TestFollowScenario(t *testing.T) {
	server := startTestServer(t)

	clientA, err := New(server.URL)
	require.NoError(t, err)
	clientB, err := New(server.URL)
	require.NoError(t, err)

	a, err := clientA.Register("anna", "anna@example.com", "password1")
	require.NoError(t, err)
	b, err := clientB.Register("ben", "ben@example.com", "password1")
	require.NoError(t, err)

	_, err = clientA.Login("anna", "password1")
	require.NoError(t, err)

	require.NoError(t, clientA.Follow(b.UserID))

	following, err := clientA.IsFollowing(a.UserID, b.UserID)
	require.NoError(t, err)
	assert.True(t, following)

	require.NoError(t, clientA.Unfollow(a.UserID, b.UserID))

	following, err = clientA.IsFollowing(a.UserID, b.UserID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestCommentCountScenario(t *testing.T) {
	server := startTestServer(t)

	c, err := New(server.URL)
	require.NoError(t, err)

	_, err = c.Register("carol", "carol@example.com", "password1")
	require.NoError(t, err)
	_, err = c.Login("carol", "password1")
	require.NoError(t, err)

	post, err := c.CreatePost("three comments incoming", nil, true)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := c.AddComment(post.ID, "a comment")
		require.NoError(t, err)
	}

	comments, err := c.GetComments(post.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), comments.Total)

	page, err := c.GetPosts(1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, 3, page.Posts[0].CommentsCount)
}

func TestBookingScenario(t *testing.T) {
	server := startTestServer(t)

	c, err := New(server.URL)
	require.NoError(t, err)

	_, err = c.Register("dora", "dora@example.com", "password1")
	require.NoError(t, err)
	_, err = c.Login("dora", "password1")
	require.NoError(t, err)

	destinations, err := c.GetFeaturedDestinations()
	require.NoError(t, err)
	require.NotEmpty(t, destinations)

	booking, err := c.CreateBooking(BookingRequest{
		DestinationID: &destinations[0].ID,
		Date:          "2026-09-12",
		Persons:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, destinations[0].PriceCents*2, booking.TotalPriceCents)
	assert.Equal(t, models.BookingPending, booking.Status)
}

func TestAPIErrorSurface(t *testing.T) {
	server := startTestServer(t)

	c, err := New(server.URL)
	require.NoError(t, err)

	// No session: creating a post must fail with a typed error
	_, err = c.CreatePost("nope", nil, true)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, 401, apiErr.StatusCode)
}
