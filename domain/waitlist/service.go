package waitlist

import (
	"context"
	"sync"
	"time"

	"github.com/akeren/levelup-fit/internal/log"
	"github.com/akeren/levelup-fit/internal/notify"
	apperrors "github.com/akeren/levelup-fit/pkg/errors"
)

type WaitlistService interface {
	// Snapshot returns the current state of the session's form.
	Snapshot(ctx context.Context, sessionID string) (*FormSnapshot, error)

	// UpdateFields applies keystroke edits to the session's form.
	UpdateFields(ctx context.Context, sessionID string, req *UpdateFormRequest) (*FormSnapshot, error)

	// Submit submits the session's form as it currently stands.
	Submit(ctx context.Context, sessionID string, wait bool) (*SubmitResponse, error)

	// Join fills in both fields and submits in one step.
	Join(ctx context.Context, sessionID string, req *JoinWaitlistRequest, wait bool) (*SubmitResponse, error)

	// Notifications drains the toasts pending for the session.
	Notifications(ctx context.Context, sessionID string) ([]notify.Toast, error)

	// Wait blocks until every submission in flight has completed or ctx ends.
	Wait(ctx context.Context) error
}

type waitlistService struct {
	logger   *log.Logger
	forms    *FormRegistry
	toasts   *notify.Center
	inFlight sync.WaitGroup
}

func NewWaitlistService(logger *log.Logger, registrar Registrar, toasts *notify.Center, metrics *Metrics, sessionTTL time.Duration) WaitlistService {
	s := &waitlistService{
		logger: logger,
		toasts: toasts,
	}

	s.forms = NewFormRegistry(sessionTTL, func(sessionID string) *WaitlistForm {
		return NewWaitlistForm(logger, registrar, toasts.For(sessionID)).track(metrics, &s.inFlight)
	})

	return s
}

func (s *waitlistService) form(sessionID string) (*WaitlistForm, error) {
	if sessionID == "" {
		return nil, apperrors.NewInvalidRequestError("missing waitlist session", nil)
	}
	return s.forms.Form(sessionID), nil
}

func (s *waitlistService) Snapshot(ctx context.Context, sessionID string) (*FormSnapshot, error) {
	form, err := s.form(sessionID)
	if err != nil {
		return nil, err
	}

	snapshot := form.Snapshot()
	return &snapshot, nil
}

func (s *waitlistService) UpdateFields(ctx context.Context, sessionID string, req *UpdateFormRequest) (*FormSnapshot, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("UpdateFields received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	form, err := s.form(sessionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		form.SetName(*req.Name)
	}
	if req.Email != nil {
		form.SetEmail(*req.Email)
	}

	snapshot := form.Snapshot()
	return &snapshot, nil
}

func (s *waitlistService) Submit(ctx context.Context, sessionID string, wait bool) (*SubmitResponse, error) {
	form, err := s.form(sessionID)
	if err != nil {
		return nil, err
	}

	return submit(ctx, form, wait), nil
}

func (s *waitlistService) Join(ctx context.Context, sessionID string, req *JoinWaitlistRequest, wait bool) (*SubmitResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Join received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	form, err := s.form(sessionID)
	if err != nil {
		return nil, err
	}

	form.SetName(req.Name)
	form.SetEmail(req.Email)

	return submit(ctx, form, wait), nil
}

func submit(ctx context.Context, form *WaitlistForm, wait bool) *SubmitResponse {
	if wait {
		outcome, snapshot := form.SubmitAndWait(ctx)
		return &SubmitResponse{Outcome: outcome, Form: snapshot}
	}

	outcome, _ := form.Submit(ctx)
	return &SubmitResponse{Outcome: outcome, Form: form.Snapshot()}
}

func (s *waitlistService) Notifications(ctx context.Context, sessionID string) ([]notify.Toast, error) {
	if sessionID == "" {
		return nil, apperrors.NewInvalidRequestError("missing waitlist session", nil)
	}
	return s.toasts.Drain(sessionID), nil
}

func (s *waitlistService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
