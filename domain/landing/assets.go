package landing

import _ "embed"

//go:embed assets/landing.css
var baseStyles string

//go:embed assets/waitlist.js
var waitlistScript string
