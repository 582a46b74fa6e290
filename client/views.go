package client

import (
	"sync"

	"github.com/voyago/voyago-server/cmd/models"
)

// Notifier surfaces a failed mutation to the user (toast in the web app).
type Notifier func(err error)

// FeedView holds a server-confirmed list of posts plus an optimistic
// overlay of pending deletions. Reads always re-derive from the latest
// confirmed snapshot, never from values captured before a request started,
// so a late response cannot resurrect state a newer action already changed.
type FeedView struct {
	client *Client
	bus    *Bus
	notify Notifier

	mu        sync.Mutex
	confirmed []models.Post
	pending   map[uint]struct{} // post ids optimistically removed
}

func NewFeedView(c *Client, bus *Bus, notify Notifier) *FeedView {
	if notify == nil {
		notify = func(error) {}
	}
	return &FeedView{
		client:  c,
		bus:     bus,
		notify:  notify,
		pending: make(map[uint]struct{}),
	}
}

// Refresh replaces the confirmed snapshot with the server's first page.
func (v *FeedView) Refresh() error {
	page, err := v.client.GetPosts(1)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.confirmed = page.Posts
	v.mu.Unlock()
	return nil
}

// Posts returns the optimistic view: confirmed posts minus pending deletes.
func (v *FeedView) Posts() []models.Post {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]models.Post, 0, len(v.confirmed))
	for _, p := range v.confirmed {
		if _, gone := v.pending[p.ID]; !gone {
			out = append(out, p)
		}
	}
	return out
}

// DeletePost removes the post from the view immediately, then issues the
// request. On failure the removal is reverted once and the notifier fires;
// on success the deletion is folded into the confirmed snapshot and a
// PostDeleted event is broadcast. The returned channel reports the outcome.
func (v *FeedView) DeletePost(postID uint) <-chan error {
	v.mu.Lock()
	v.pending[postID] = struct{}{}
	v.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		err := v.client.DeletePost(postID)

		v.mu.Lock()
		delete(v.pending, postID)
		if err == nil {
			kept := v.confirmed[:0]
			for _, p := range v.confirmed {
				if p.ID != postID {
					kept = append(kept, p)
				}
			}
			v.confirmed = kept
		}
		v.mu.Unlock()

		if err != nil {
			v.notify(err)
		} else if v.bus != nil {
			v.bus.Publish(Event{Name: EventPostDeleted, Payload: postID})
		}
		done <- err
	}()
	return done
}

// CreatePost publishes a post and, on success, prepends it to the confirmed
// snapshot and broadcasts PostCreated. Creation is not optimistic: the form
// stays disabled until the server assigns the id.
func (v *FeedView) CreatePost(content string, images []string) (*models.Post, error) {
	post, err := v.client.CreatePost(content, images, true)
	if err != nil {
		v.notify(err)
		return nil, err
	}

	v.mu.Lock()
	v.confirmed = append([]models.Post{*post}, v.confirmed...)
	v.mu.Unlock()

	if v.bus != nil {
		v.bus.Publish(Event{Name: EventPostCreated, Payload: post.ID})
	}
	return post, nil
}

// FollowState is the optimistic follow/unfollow toggle behind a follow
// button: flip immediately, confirm in the background, flip back on error.
type FollowState struct {
	client *Client
	bus    *Bus
	notify Notifier

	followerID  uint
	followingID uint

	mu        sync.Mutex
	following bool
}

func NewFollowState(c *Client, bus *Bus, notify Notifier, followerID, followingID uint) *FollowState {
	if notify == nil {
		notify = func(error) {}
	}
	return &FollowState{
		client:      c,
		bus:         bus,
		notify:      notify,
		followerID:  followerID,
		followingID: followingID,
	}
}

// Load fetches the authoritative state.
func (s *FollowState) Load() error {
	following, err := s.client.IsFollowing(s.followerID, s.followingID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.following = following
	s.mu.Unlock()
	return nil
}

func (s *FollowState) Following() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.following
}

// Toggle flips the local state and issues the matching request. On failure
// the state reverts exactly once to that toggle's pre-action value; with
// several failed toggles in flight the last response to land wins.
func (s *FollowState) Toggle() <-chan error {
	s.mu.Lock()
	s.following = !s.following
	target := s.following
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		var err error
		if target {
			err = s.client.Follow(s.followingID)
		} else {
			err = s.client.Unfollow(s.followerID, s.followingID)
		}

		if err != nil {
			s.mu.Lock()
			s.following = !target
			s.mu.Unlock()
			s.notify(err)
		} else if s.bus != nil {
			s.bus.Publish(Event{Name: EventFollowChanged, Payload: s.followingID})
		}
		done <- err
	}()
	return done
}
