package waitlist

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/akeren/levelup-fit/internal/log"
	"github.com/akeren/levelup-fit/internal/notify"
	apperrors "github.com/akeren/levelup-fit/pkg/errors"
)

const (
	MessageMissingFields = "Please fill in all fields"
	MessageJoined        = "Welcome to the waitlist! Check your email for updates."
	MessageFailed        = "Something went wrong. Please try again."
)

type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StateSubmitting
)

func (s SubmissionState) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

func (s SubmissionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type SubmitOutcome int

const (
	// OutcomeAccepted means the form moved to Submitting and a registration started.
	OutcomeAccepted SubmitOutcome = iota
	// OutcomeRejected means a required field was empty.
	OutcomeRejected
	// OutcomeIgnored means a submission was already in flight.
	OutcomeIgnored
)

func (o SubmitOutcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

func (o SubmitOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

type WaitlistSubmission struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Validate only checks for empty values. Whitespace counts as input and
// the email format is left to whoever consumes the waitlist.
func (s WaitlistSubmission) Validate() error {
	var missing []string
	if s.Name == "" {
		missing = append(missing, "name")
	}
	if s.Email == "" {
		missing = append(missing, "email")
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

type FormSnapshot struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	State      SubmissionState `json:"state"`
	Submitting bool            `json:"submitting"`
}

// WaitlistForm holds the join form of one visitor. At most one submission
// is in flight; Submit calls made meanwhile are no-ops.
type WaitlistForm struct {
	mu    sync.Mutex
	name  string
	email string
	state SubmissionState
	done  chan struct{}

	logger    *log.Logger
	registrar Registrar
	toasts    notify.Publisher
	metrics   *Metrics
	inFlight  *sync.WaitGroup

	// onBusy is told when a submission starts and ends. It is called
	// without mu held.
	onBusy func(busy bool)
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func NewWaitlistForm(logger *log.Logger, registrar Registrar, toasts notify.Publisher) *WaitlistForm {
	return &WaitlistForm{
		logger:    logger,
		registrar: registrar,
		toasts:    toasts,
	}
}

// track makes the form report to shared metrics and the shutdown wait group.
func (f *WaitlistForm) track(metrics *Metrics, inFlight *sync.WaitGroup) *WaitlistForm {
	f.metrics = metrics
	f.inFlight = inFlight
	return f
}

func (f *WaitlistForm) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = name
}

func (f *WaitlistForm) SetEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
}

func (f *WaitlistForm) Snapshot() FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *WaitlistForm) snapshotLocked() FormSnapshot {
	return FormSnapshot{
		Name:       f.name,
		Email:      f.email,
		State:      f.state,
		Submitting: f.state == StateSubmitting,
	}
}

// Submit validates the current fields and, when they are filled in, starts
// the registration in the background. The returned channel is closed once
// the form is back to Idle; for a rejected submit it is already closed and
// for an ignored one it is the channel of the submission in flight.
//
// The registration does not inherit ctx's cancellation: once started it
// always runs to completion.
func (f *WaitlistForm) Submit(ctx context.Context) (SubmitOutcome, <-chan struct{}) {
	f.mu.Lock()

	if f.state == StateSubmitting {
		done := f.done
		f.mu.Unlock()
		f.metrics.observeOutcome(OutcomeIgnored)
		return OutcomeIgnored, done
	}

	submission := WaitlistSubmission{Name: f.name, Email: f.email}
	if err := submission.Validate(); err != nil {
		f.mu.Unlock()
		f.toasts.Publish(notify.Error(MessageMissingFields))
		f.metrics.observeOutcome(OutcomeRejected)
		return OutcomeRejected, closedDone
	}

	done := make(chan struct{})
	f.state = StateSubmitting
	f.done = done
	if f.inFlight != nil {
		f.inFlight.Add(1)
	}
	f.mu.Unlock()

	f.notifyBusy(true)
	f.metrics.observeOutcome(OutcomeAccepted)
	f.metrics.submissionStarted()

	go f.complete(context.WithoutCancel(ctx), submission, done)

	return OutcomeAccepted, done
}

// SubmitAndWait is Submit followed by waiting for the form to settle, or
// for ctx to end, whichever comes first.
func (f *WaitlistForm) SubmitAndWait(ctx context.Context) (SubmitOutcome, FormSnapshot) {
	outcome, done := f.Submit(ctx)

	select {
	case <-done:
	case <-ctx.Done():
	}

	return outcome, f.Snapshot()
}

func (f *WaitlistForm) complete(ctx context.Context, submission WaitlistSubmission, done chan struct{}) {
	logger := log.GetLoggerInstanceFromContext(ctx, f.logger)

	defer func() {
		if f.inFlight != nil {
			f.inFlight.Done()
		}
	}()

	start := time.Now()
	err := f.registrar.Register(ctx, submission)
	f.metrics.submissionFinished(err, time.Since(start))

	f.mu.Lock()
	if err == nil {
		f.name = ""
		f.email = ""
	}
	f.state = StateIdle
	f.done = nil
	f.mu.Unlock()

	f.notifyBusy(false)

	// Toasts go out only once the form is back to Idle.
	if err != nil {
		logger.Error("Waitlist registration failed", "error", err, "error_type", apperrors.GetErrorType(err))
		f.toasts.Publish(notify.Error(MessageFailed))
	} else {
		logger.Info("Waitlist submission registered")
		f.toasts.Publish(notify.Success(MessageJoined))
	}

	close(done)
}

func (f *WaitlistForm) notifyBusy(busy bool) {
	if f.onBusy != nil {
		f.onBusy(busy)
	}
}
