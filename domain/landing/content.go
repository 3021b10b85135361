package landing

const (
	BrandName = "LevelUp Fit"
	Tagline   = "Turn your fitness into a game"
	Copyright = "© 2025 LevelUp Fit. All rights reserved."
)

type Feature struct {
	Icon        string
	Title       string
	Description string
}

type Preview struct {
	Icon        string
	Label       string
	Title       string
	Description string
	Accent      string
}

type Perk struct {
	Icon        string
	Title       string
	Description string
}

type NavLink struct {
	Label string
	Href  string
	Icon  string
}

var AboutParagraphs = []string{
	"LevelUp Fit transforms your fitness journey into an engaging RPG-style game. Every workout becomes an adventure, every goal becomes a quest, and every milestone becomes an achievement.",
	"Whether you're a fitness beginner or a seasoned athlete, our gamification system adapts to your level and keeps you motivated with personalized challenges, social competition, and meaningful progress tracking.",
}

var Features = []Feature{
	{"lucide:trophy", "Earn XP & Level Up", "Every workout earns you experience points"},
	{"lucide:target", "Complete Challenges", "Daily and weekly fitness challenges"},
	{"lucide:calendar", "Build Streaks", "Maintain your fitness momentum"},
	{"lucide:users", "Compete with Friends", "Join leaderboards and friendly competition"},
	{"lucide:crown", "Unlock Achievements", "Collect badges and special rewards"},
	{"lucide:trending-up", "Track Progress", "Visual progress tracking and analytics"},
}

var Previews = []Preview{
	{"lucide:trophy", "Dashboard", "Your Progress Hub", "Track your level, XP, and achievements in one place", "purple"},
	{"lucide:target", "Challenges", "Daily Quests", "Complete personalized fitness challenges", "green"},
	{"lucide:users", "Social", "Compete & Connect", "Challenge friends and climb leaderboards", "orange"},
}

var Perks = []Perk{
	{"lucide:gift", "Free Premium Month", "Get your first month of premium features free"},
	{"lucide:crown", "Exclusive Badge", `Permanent "Founding Member" achievement`},
	{"lucide:zap", "Early Access", "Try new features before everyone else"},
}

var SocialLinks = []NavLink{
	{"Instagram", "#", "lucide:instagram"},
	{"Twitter", "#", "lucide:twitter"},
	{"Discord", "#", "lucide:message-circle"},
}

var ContactLink = NavLink{"Contact Us", "#", "lucide:mail"}

var FooterLinks = []NavLink{
	{Label: "Privacy Policy", Href: "#"},
	{Label: "Terms of Service", Href: "#"},
	{Label: "Support", Href: "#"},
}
