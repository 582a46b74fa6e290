// Package client is a Go client for the Voyago API plus the optimistic
// view-state layer the web frontend uses: mutate locally first, send the
// request, reconcile on success, revert exactly once on failure.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"

	"github.com/voyago/voyago-server/cmd/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client with a cookie jar so the session cookie set at login
// rides along on every later request.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
	}, nil
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(msg))}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"user_id"`
}

func (c *Client) Register(username, email, password string) (*RegisterResponse, error) {
	var out RegisterResponse
	err := c.do("POST", "/api/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	UserID      uint   `json:"user_id"`
}

func (c *Client) Login(username, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do("POST", "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout() error {
	return c.do("POST", "/api/logout", nil, nil)
}

func (c *Client) CurrentUser() (*models.User, error) {
	var out models.User
	if err := c.do("GET", "/api/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type PostsPage struct {
	Posts      []models.Post `json:"posts"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int64         `json:"total_pages"`
}

func (c *Client) GetPosts(page int) (*PostsPage, error) {
	var out PostsPage
	if err := c.do("GET", fmt.Sprintf("/api/posts?page=%d", page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUserPosts(userID uint, page int) (*PostsPage, error) {
	var out PostsPage
	path := fmt.Sprintf("/api/users/%d/posts?page=%d", userID, page)
	if err := c.do("GET", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePost(content string, images []string, isPublic bool) (*models.Post, error) {
	var out models.Post
	err := c.do("POST", "/api/posts", map[string]interface{}{
		"content":   content,
		"images":    images,
		"is_public": isPublic,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(postID uint) error {
	return c.do("DELETE", fmt.Sprintf("/api/posts/%d", postID), nil, nil)
}

type CommentsPage struct {
	Comments   []models.Comment `json:"comments"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int64            `json:"total_pages"`
}

func (c *Client) GetComments(postID uint, page int) (*CommentsPage, error) {
	var out CommentsPage
	path := fmt.Sprintf("/api/posts/%d/comments?page=%d", postID, page)
	if err := c.do("GET", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddComment(postID uint, content string) (*models.Comment, error) {
	var out models.Comment
	path := fmt.Sprintf("/api/posts/%d/comments", postID)
	if err := c.do("POST", path, map[string]string{"content": content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Follow(followingID uint) error {
	return c.do("POST", "/api/followers", map[string]uint{"following_id": followingID}, nil)
}

func (c *Client) Unfollow(followerID, followingID uint) error {
	return c.do("DELETE", fmt.Sprintf("/api/followers/%d/%d", followerID, followingID), nil, nil)
}

func (c *Client) IsFollowing(followerID, followingID uint) (bool, error) {
	var out struct {
		Following bool `json:"following"`
	}
	path := fmt.Sprintf("/api/users/%d/following/%d", followerID, followingID)
	if err := c.do("GET", path, nil, &out); err != nil {
		return false, err
	}
	return out.Following, nil
}

type BookingRequest struct {
	DestinationID *uint  `json:"destination_id,omitempty"`
	ExperienceID  *uint  `json:"experience_id,omitempty"`
	Date          string `json:"date"`
	Persons       int    `json:"persons"`
}

func (c *Client) CreateBooking(req BookingRequest) (*models.Booking, error) {
	var out models.Booking
	if err := c.do("POST", "/api/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDestinations() ([]models.Destination, error) {
	var out []models.Destination
	if err := c.do("GET", "/api/destinations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFeaturedDestinations() ([]models.Destination, error) {
	var out []models.Destination
	if err := c.do("GET", "/api/destinations/featured", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetExperiences() ([]models.Experience, error) {
	var out []models.Experience
	if err := c.do("GET", "/api/experiences", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTrendingExperiences() ([]models.Experience, error) {
	var out []models.Experience
	if err := c.do("GET", "/api/experiences/trending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
