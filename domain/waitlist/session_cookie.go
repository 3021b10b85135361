package waitlist

import (
	"net/http"
	"time"

	"github.com/akeren/levelup-fit/config/router"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "levelup_session"
	sessionContextKey = "waitlist_session_id"
)

// sessionMiddleware ties each visitor to a form. Unknown or malformed
// cookies are replaced with a fresh session.
func sessionMiddleware(ttl time.Duration) router.MiddlewareFunc {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return func(c *router.RequestContext) {
		id, err := c.Cookie(SessionCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
		}

		// Refresh on every request so the cookie outlives the form registry's idle TTL.
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     SessionCookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			Secure:   c.Request.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})

		c.Set(sessionContextKey, id)
		c.Next()
	}
}

func sessionID(ctx *router.RequestContext) string {
	return ctx.GetString(sessionContextKey)
}
