package landing

import (
	"fmt"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const (
	ButtonIdleLabel = "Get Early Access"
	ButtonBusyLabel = "Joining..."
)

// Page renders the whole landing document in the given theme.
func Page(theme Theme) g.Node {
	return Layout(theme,
		HeroSection(),
		AboutSection(),
		PreviewSection(),
		PerkSection(),
		SocialSection(),
		PageFooter(),
		ToastContainer(),
	)
}

func Layout(theme Theme, content ...g.Node) g.Node {
	title := fmt.Sprintf("%s - %s", BrandName, Tagline)

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			g.Attr("data-theme", theme.Name),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				Meta(Name("description"), Content(Tagline)),
				Meta(g.Attr("property", "og:title"), Content(title)),
				Meta(g.Attr("property", "og:type"), Content("website")),
				Link(Rel("stylesheet"), Href(theme.FontURL)),
				StyleEl(g.Raw(themeVariables(theme)+baseStyles)),
				Script(Src("https://code.iconify.design/1/1.0.7/iconify.min.js")),
			),
			Body(
				g.Group(content),
				Script(g.Raw(waitlistScript)),
			),
		),
	})
}

func Icon(name string) g.Node {
	return Span(
		Class("iconify icon"),
		g.Attr("data-icon", name),
		g.Attr("aria-hidden", "true"),
	)
}

func HeroSection() g.Node {
	return Section(
		Class("hero"),
		Div(
			Class("container center"),
			Div(
				Class("logo"),
				Icon("lucide:gamepad-2"),
				Span(Class("logo-star"), Icon("lucide:star")),
			),
			H1(Class("brand"), g.Text(BrandName)),
			P(Class("tagline"), g.Text(Tagline)),
			Span(Class("badge"), Icon("lucide:play"), g.Text("Coming Soon")),
			WaitlistCard(),
		),
	)
}

// WaitlistCard is the join form. The inline script posts it to the JSON
// API; without JavaScript it falls back to a plain form post.
func WaitlistCard() g.Node {
	return Div(
		Class("card waitlist"),
		H3(g.Text("Join the Waitlist")),
		FormEl(
			ID("waitlist-form"),
			Method("post"),
			Action("/v1/waitlist"),
			g.Attr("novalidate"),
			Div(
				Class("field"),
				Label(For("name"), g.Text("Name")),
				Input(ID("name"), Name("name"), Type("text"), Placeholder("Enter your name"), AutoComplete("name")),
			),
			Div(
				Class("field"),
				Label(For("email"), g.Text("Email")),
				Input(ID("email"), Name("email"), Type("email"), Placeholder("Enter your email"), AutoComplete("email")),
			),
			Button(
				ID("waitlist-submit"),
				Type("submit"),
				Class("btn btn-primary"),
				g.Attr("data-idle-label", ButtonIdleLabel),
				g.Attr("data-busy-label", ButtonBusyLabel),
				g.Text(ButtonIdleLabel),
			),
		),
		P(Class("fine-print"), g.Text("No spam. Unsubscribe any time.")),
	)
}

func AboutSection() g.Node {
	return Section(
		Class("section"),
		Div(
			Class("container"),
			Div(
				Class("center"),
				H2(g.Text("Fitness Meets Gaming")),
				Div(Class("lead"), g.Group(g.Map(AboutParagraphs, func(p string) g.Node {
					return P(g.Text(p))
				}))),
			),
			Div(
				Class("grid grid-3"),
				g.Group(g.Map(Features, func(f Feature) g.Node {
					return Div(
						Class("card feature"),
						Div(
							Class("feature-head"),
							Span(Class("icon-tile"), Icon(f.Icon)),
							H3(g.Text(f.Title)),
						),
						P(g.Text(f.Description)),
					)
				})),
			),
		),
	)
}

func PreviewSection() g.Node {
	return Section(
		Class("section alt"),
		Div(
			Class("container"),
			Div(
				Class("center"),
				H2(g.Text("Get a Sneak Peek")),
				P(Class("lead"), g.Text("Here's what you can expect from LevelUp Fit when it launches")),
			),
			Div(
				Class("grid grid-3"),
				g.Group(g.Map(Previews, func(p Preview) g.Node {
					return Div(
						Class("card preview"),
						Div(
							Class("phone phone-"+p.Accent),
							Icon(p.Icon),
							P(g.Text(p.Label)),
						),
						H3(Class("center"), g.Text(p.Title)),
						P(Class("center muted"), g.Text(p.Description)),
					)
				})),
			),
		),
	)
}

func PerkSection() g.Node {
	return Section(
		Class("section"),
		Div(
			Class("container narrow center"),
			H2(g.Text("Early Adopter Perks")),
			P(Class("lead"), g.Text("Be among the first to experience LevelUp Fit and get exclusive benefits")),
			Div(
				Class("grid grid-3"),
				g.Group(g.Map(Perks, func(p Perk) g.Node {
					return Div(
						Class("perk"),
						Span(Class("perk-icon"), Icon(p.Icon)),
						H3(g.Text(p.Title)),
						P(Class("muted"), g.Text(p.Description)),
					)
				})),
			),
		),
	)
}

func SocialSection() g.Node {
	return Section(
		Class("section alt"),
		Div(
			Class("container narrow center"),
			H2(g.Text("Stay Connected")),
			P(Class("lead"), g.Text("Follow our journey and join the community")),
			Div(
				Class("social"),
				g.Group(g.Map(SocialLinks, func(l NavLink) g.Node {
					return A(Class("btn btn-outline"), Href(l.Href), Icon(l.Icon), Span(g.Text(l.Label)))
				})),
			),
			P(Class("muted"), g.Text("Press or partnership inquiries?")),
			A(Class("btn btn-outline"), Href(ContactLink.Href), Icon(ContactLink.Icon), Span(g.Text(ContactLink.Label))),
		),
	)
}

func PageFooter() g.Node {
	return Footer(
		Class("footer"),
		Div(
			Class("container center"),
			Div(Class("logo logo-small"), Icon("lucide:gamepad-2")),
			H3(g.Text(BrandName)),
			P(Class("muted"), g.Text(Tagline)),
			Hr(),
			Nav(
				Class("footer-links"),
				g.Group(g.Map(FooterLinks, func(l NavLink) g.Node {
					return A(Href(l.Href), g.Text(l.Label))
				})),
			),
			P(Class("muted small"), g.Text(Copyright)),
		),
	)
}

// ToastContainer is where the script mounts drained notifications.
func ToastContainer() g.Node {
	return Div(
		ID("toasts"),
		Class("toasts"),
		g.Attr("aria-live", "polite"),
	)
}

func themeVariables(theme Theme) string {
	return fmt.Sprintf(`:root{--bg:%s;--surface:%s;--text:%s;--muted:%s;--primary:%s;--secondary:%s;--border:%s;--glow:%s;--font:%s;}`,
		theme.Background, theme.Surface, theme.Text, theme.Muted, theme.Primary,
		theme.Secondary, theme.Border, theme.Glow, theme.FontFamily)
}
