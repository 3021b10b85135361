package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Display durations used by the page when rendering a toast.
const (
	SuccessDuration = 2 * time.Second
	ErrorDuration   = 4 * time.Second
)

const DefaultRetention = 30 * time.Second

type Toast struct {
	ID      string `json:"id"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
	// DurationMS is how long the page keeps the toast on screen.
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

func Success(message string) Toast {
	return newToast(LevelSuccess, message, SuccessDuration)
}

func Error(message string) Toast {
	return newToast(LevelError, message, ErrorDuration)
}

func newToast(level Level, message string, duration time.Duration) Toast {
	return Toast{
		ID:         uuid.New().String(),
		Level:      level,
		Message:    message,
		DurationMS: duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
}

// Publisher posts a toast to a single notification surface.
type Publisher interface {
	Publish(toast Toast)
}

// Center keeps undelivered toasts per session until they are drained or
// the retention window passes.
type Center struct {
	mu        sync.Mutex
	cache     *gocache.Cache
	retention time.Duration
}

func NewCenter(retention time.Duration) *Center {
	if retention <= 0 {
		retention = DefaultRetention
	}

	return &Center{
		cache:     gocache.New(retention, 2*retention),
		retention: retention,
	}
}

func (c *Center) Publish(sessionID string, toast Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var pending []Toast
	if existing, found := c.cache.Get(sessionID); found {
		if toasts, ok := existing.([]Toast); ok {
			pending = toasts
		}
	}

	// Copy so a slice handed out by Pending never aliases the stored one.
	next := make([]Toast, 0, len(pending)+1)
	next = append(next, pending...)
	next = append(next, toast)

	c.cache.Set(sessionID, next, c.retention)
}

// Drain returns the session's pending toasts in publish order and forgets them.
func (c *Center) Drain(sessionID string) []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, found := c.cache.Get(sessionID)
	if !found {
		return []Toast{}
	}
	c.cache.Delete(sessionID)

	toasts, ok := existing.([]Toast)
	if !ok {
		return []Toast{}
	}

	return toasts
}

func (c *Center) Pending(sessionID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, found := c.cache.Get(sessionID); found {
		if toasts, ok := existing.([]Toast); ok {
			return len(toasts)
		}
	}

	return 0
}

// For binds the center to one session.
func (c *Center) For(sessionID string) Publisher {
	return &sessionPublisher{center: c, sessionID: sessionID}
}

type sessionPublisher struct {
	center    *Center
	sessionID string
}

func (p *sessionPublisher) Publish(toast Toast) {
	p.center.Publish(p.sessionID, toast)
}

// Recorder collects toasts in memory. Handy for tests and one-off renders.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Publish(toast Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast)
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}
