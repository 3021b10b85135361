package waitlist

//go:generate mockgen -source=registrar.go -destination=mock_registrar.go -package=waitlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const (
	RegistrarSimulated = "simulated"
	RegistrarDatabase  = "database"
	RegistrarWebhook   = "webhook"
)

const DefaultSimulatedDelay = time.Second

var tracer = otel.Tracer("github.com/akeren/levelup-fit/domain/waitlist")

type Registrar interface {
	// Register records one submission. An error sends the form back to Idle
	// with its fields kept.
	Register(ctx context.Context, submission WaitlistSubmission) error
}

// SimulatedRegistrar stands in for a real backend: it waits a fixed delay
// and reports success. It performs no I/O.
type SimulatedRegistrar struct {
	delay time.Duration
}

func NewSimulatedRegistrar(delay time.Duration) *SimulatedRegistrar {
	if delay < 0 {
		delay = 0
	}
	return &SimulatedRegistrar{delay: delay}
}

func (r *SimulatedRegistrar) Delay() time.Duration {
	return r.delay
}

func (r *SimulatedRegistrar) Register(ctx context.Context, _ WaitlistSubmission) error {
	ctx, span := tracer.Start(ctx, "waitlist.SimulatedRegistrar.Register")
	defer span.End()

	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		span.SetStatus(codes.Error, ctx.Err().Error())
		return ctx.Err()
	}
}

func ParseRegistrarKind(raw string) (string, error) {
	kind := strings.ToLower(strings.TrimSpace(raw))

	switch kind {
	case "":
		return RegistrarSimulated, nil
	case RegistrarSimulated, RegistrarDatabase, RegistrarWebhook:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown waitlist registrar %q (allowed: %s, %s, %s)", raw, RegistrarSimulated, RegistrarDatabase, RegistrarWebhook)
	}
}
