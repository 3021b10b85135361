package waitlist

import "github.com/akeren/levelup-fit/internal/notify"

// Emptiness is checked by the form itself so that it can raise the
// validation toast; binding only caps the length.
type JoinWaitlistRequest struct {
	Name  string `json:"name" form:"name" binding:"max=255"`
	Email string `json:"email" form:"email" binding:"max=255"`
}

// UpdateFormRequest carries keystroke edits. Absent fields are left alone.
type UpdateFormRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=255"`
	Email *string `json:"email" binding:"omitempty,max=255"`
}

type SubmitResponse struct {
	Outcome SubmitOutcome `json:"outcome"`
	Form    FormSnapshot  `json:"form"`
}

type NotificationsResponse struct {
	Notifications []notify.Toast `json:"notifications"`
}
