package landing

import (
	"io"
	"net/http"
	"time"

	"github.com/akeren/levelup-fit/config/router"
	"github.com/akeren/levelup-fit/pkg/ratelimit"
)

const pageRequestsPerMinute = 120

func NewLandingController() *router.RESTController {
	return router.NewRESTController(
		"LandingController",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			// Both themes share one page budget per visitor.
			c.RateLimitWith(rs, createLandingRateLimiter(rs))

			rs.AddPageHandler(c, nil, "", landingPageHandler(ThemeLight))
			rs.AddPageHandler(c, nil, ThemeNeural, landingPageHandler(ThemeNeural))
		},
	)
}

func createLandingRateLimiter(rs *router.RouterService) ratelimit.RateLimiter {
	return rs.NewScopedRateLimiter(pageRequestsPerMinute, time.Minute)
}

// landingPageHandler serves the page in defaultTheme unless the visitor
// asks for another one with ?theme=.
func landingPageHandler(defaultTheme string) router.PageFunction {
	return func(ctx *router.RequestContext) (int, router.Renderable) {
		name := ctx.DefaultQuery("theme", defaultTheme)

		theme, err := ThemeByName(name)
		if err != nil {
			router.GetLogger(ctx).Warn("Unknown landing theme requested", "theme", name)
			theme, _ = ThemeByName(defaultTheme)
		}

		return http.StatusOK, Page(theme)
	}
}

// WritePage renders the page for the named theme to w.
func WritePage(w io.Writer, themeName string) error {
	theme, err := ThemeByName(themeName)
	if err != nil {
		return err
	}
	return Page(theme).Render(w)
}
