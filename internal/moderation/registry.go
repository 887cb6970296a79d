package moderation

import (
	"errors"
	"slices"
	"sync"

	"github.com/havenmod/haven/internal/metrics"
)

var (
	// ErrReviewInProgress is returned when a channel already holds a review.
	ErrReviewInProgress = errors.New("review already in progress")
	// ErrNoPendingReviews is returned when no session waits for review.
	ErrNoPendingReviews = errors.New("no pending reviews")
)

// Registry owns every live session, the FIFO of reports waiting for a
// moderator, and the review each moderator channel is working on.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	pending  []string
	active   map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		active:   make(map[string]string),
	}
}

// Get returns the session stored under key.
func (r *Registry) Get(key string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[key]
	return s, ok
}

// Add stores a session unless one already exists under its key.
// It returns the stored session and whether it was newly added.
func (r *Registry) Add(s *Session) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[s.key]; ok {
		return existing, false
	}

	r.sessions[s.key] = s
	return s, true
}

// Enqueue appends a stored session to the pending review queue.
func (r *Registry) Enqueue(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[key]; !ok || slices.Contains(r.pending, key) {
		return
	}

	r.pending = append(r.pending, key)
	metrics.PendingReviews.Set(float64(len(r.pending)))
}

// Pending returns the number of sessions waiting for review.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}

// ClaimNext dequeues the oldest pending session and makes it the review in
// progress for a channel. The check and the claim happen under one lock, so
// a channel never holds more than one review.
func (r *Registry) ClaimNext(channelID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if key, ok := r.active[channelID]; ok {
		if _, live := r.sessions[key]; live {
			return nil, ErrReviewInProgress
		}
		delete(r.active, channelID)
	}

	for len(r.pending) > 0 {
		key := r.pending[0]
		r.pending = r.pending[1:]
		metrics.PendingReviews.Set(float64(len(r.pending)))

		if s, ok := r.sessions[key]; ok {
			r.active[channelID] = key
			return s, nil
		}
	}

	return nil, ErrNoPendingReviews
}

// Release clears a channel's claim on a session.
func (r *Registry) Release(channelID, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active[channelID] == key {
		delete(r.active, channelID)
	}
}

// Active returns the review in progress for a channel.
func (r *Registry) Active(channelID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.active[channelID]
	if !ok {
		return nil, false
	}

	s, ok := r.sessions[key]
	if !ok {
		delete(r.active, channelID)
		return nil, false
	}

	return s, true
}

// Remove deletes a session along with its queue and review entries.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, key)

	if i := slices.Index(r.pending, key); i >= 0 {
		r.pending = slices.Delete(r.pending, i, i+1)
		metrics.PendingReviews.Set(float64(len(r.pending)))
	}

	for channelID, activeKey := range r.active {
		if activeKey == key {
			delete(r.active, channelID)
		}
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}
