package landing

import (
	"bytes"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akeren/levelup-fit/config/router"
	"github.com/akeren/levelup-fit/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *router.RouterService {
	t.Helper()

	rs := router.CreateRouterService(log.NewLoggerWithJSONOutput(), nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
	rs.MountController(NewLandingController())
	return rs
}

func get(t *testing.T, rs *router.RouterService, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestWritePage_ContainsEverySection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, ThemeLight))

	page := buf.String()
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))

	for _, text := range []string{
		BrandName,
		Tagline,
		"Coming Soon",
		"Join the Waitlist",
		ButtonIdleLabel,
		`data-busy-label="Joining..."`,
		"No spam. Unsubscribe any time.",
		"Fitness Meets Gaming",
		"Get a Sneak Peek",
		"Early Adopter Perks",
		"Stay Connected",
		"Press or partnership inquiries?",
		"Privacy Policy",
		"Terms of Service",
		"All rights reserved.",
		`id="toasts"`,
		"/v1/waitlist/notifications",
	} {
		assert.Contains(t, page, text)
	}

	for _, feature := range Features {
		assert.Contains(t, page, html.EscapeString(feature.Title))
	}
	for _, preview := range Previews {
		assert.Contains(t, page, preview.Label)
	}
	for _, perk := range Perks {
		assert.Contains(t, page, perk.Title)
	}
	for _, link := range SocialLinks {
		assert.Contains(t, page, link.Label)
	}
}

func TestWritePage_UnknownTheme(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WritePage(&buf, "sepia"))
	assert.Zero(t, buf.Len())
}

func TestThemeByName(t *testing.T) {
	theme, err := ThemeByName("")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme.Name)
	assert.Equal(t, "Light", theme.DisplayName())

	theme, err = ThemeByName(" NEURAL ")
	require.NoError(t, err)
	assert.Equal(t, ThemeNeural, theme.Name)
	assert.Equal(t, "Neural", theme.DisplayName())

	assert.Equal(t, []string{ThemeLight, ThemeNeural}, ThemeNames())
}

func TestLandingController_ServesBothThemes(t *testing.T) {
	rs := newTestRouter(t)

	cases := []struct {
		path  string
		theme string
	}{
		{"/", ThemeLight},
		{"/?theme=neural", ThemeNeural},
		{"/neural", ThemeNeural},
		{"/neural?theme=light", ThemeLight},
		{"/?theme=unknown", ThemeLight},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := get(t, rs, tc.path)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, w.Body.String(), `data-theme="`+tc.theme+`"`)
		})
	}
}
