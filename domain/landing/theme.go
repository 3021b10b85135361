package landing

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	ThemeLight  = "light"
	ThemeNeural = "neural"
)

// Theme is one visual skin of the page. Both skins share the same content
// and the same form behavior.
type Theme struct {
	Name       string
	FontFamily string
	FontURL    string
	Background string
	Surface    string
	Text       string
	Muted      string
	Primary    string
	Secondary  string
	Border     string
	Glow       string
}

var themes = map[string]Theme{
	ThemeLight: {
		Name:       ThemeLight,
		FontFamily: "Inter, ui-sans-serif, system-ui, sans-serif",
		FontURL:    "https://fonts.googleapis.com/css2?family=Inter:wght@400;600;700&display=swap",
		Background: "linear-gradient(135deg, #faf5ff 0%, #ffffff 50%, #eff6ff 100%)",
		Surface:    "rgba(255, 255, 255, 0.85)",
		Text:       "#111827",
		Muted:      "#4b5563",
		Primary:    "#9333ea",
		Secondary:  "#2563eb",
		Border:     "#e5e7eb",
		Glow:       "0 10px 25px rgba(0, 0, 0, 0.08)",
	},
	ThemeNeural: {
		Name:       ThemeNeural,
		FontFamily: "Orbitron, ui-monospace, monospace",
		FontURL:    "https://fonts.googleapis.com/css2?family=Orbitron:wght@400;600;700&display=swap",
		Background: "radial-gradient(ellipse at center, rgba(168, 85, 247, 0.15) 0%, transparent 70%), #0b0720",
		Surface:    "rgba(42, 22, 101, 0.6)",
		Text:       "#ecfeff",
		Muted:      "#a5f3fc",
		Primary:    "#a855f7",
		Secondary:  "#06b6d4",
		Border:     "rgba(6, 182, 212, 0.35)",
		Glow:       "0 0 20px rgba(168, 85, 247, 0.3), 0 0 40px rgba(6, 182, 212, 0.2)",
	},
}

var titleCaser = cases.Title(language.English)

// DisplayName is the theme name as shown to visitors.
func (t Theme) DisplayName() string {
	return titleCaser.String(t.Name)
}

// ThemeByName looks a theme up case-insensitively. An empty name selects
// the light theme.
func ThemeByName(name string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = ThemeLight
	}

	theme, ok := themes[key]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return theme, nil
}

func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
