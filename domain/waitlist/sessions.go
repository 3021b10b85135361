package waitlist

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const DefaultSessionTTL = 30 * time.Minute

// FormRegistry keeps one form per visitor session. Forms nobody touched
// for the TTL are dropped. A form with a submission in flight never
// expires; its idle timer restarts when the submission completes.
type FormRegistry struct {
	mu      sync.Mutex
	forms   *gocache.Cache
	ttl     time.Duration
	newForm func(sessionID string) *WaitlistForm
}

func NewFormRegistry(ttl time.Duration, newForm func(sessionID string) *WaitlistForm) *FormRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &FormRegistry{
		forms:   gocache.New(ttl, ttl/2),
		ttl:     ttl,
		newForm: newForm,
	}
}

// Form returns the session's form, creating it on first use. Every call
// restarts the idle timer.
func (r *FormRegistry) Form(sessionID string) *WaitlistForm {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, found := r.forms.Get(sessionID); found {
		if form, ok := existing.(*WaitlistForm); ok {
			r.forms.Set(sessionID, form, r.expiryFor(form.Snapshot().Submitting))
			return form
		}
	}

	form := r.newForm(sessionID)
	form.onBusy = func(busy bool) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.forms.Set(sessionID, form, r.expiryFor(busy))
	}
	r.forms.Set(sessionID, form, r.ttl)
	return form
}

func (r *FormRegistry) expiryFor(submitting bool) time.Duration {
	if submitting {
		return gocache.NoExpiration
	}
	return r.ttl
}

func (r *FormRegistry) Lookup(sessionID string) (*WaitlistForm, bool) {
	existing, found := r.forms.Get(sessionID)
	if !found {
		return nil, false
	}

	form, ok := existing.(*WaitlistForm)
	return form, ok
}

func (r *FormRegistry) Len() int {
	return r.forms.ItemCount()
}
