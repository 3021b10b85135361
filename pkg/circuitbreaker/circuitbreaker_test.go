package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("downstream failed")

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(&Config{Name: "webhook", FailureThreshold: 2, RecoveryTimeout: time.Minute, SuccessThreshold: 1})

	calls := 0
	failing := func() error {
		calls++
		return errDownstream
	}

	assert.ErrorIs(t, cb.Call(failing), errDownstream)
	assert.Equal(t, "closed", cb.State())
	assert.ErrorIs(t, cb.Call(failing), errDownstream)
	assert.Equal(t, "open", cb.State())

	err := cb.Call(failing)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Contains(t, err.Error(), "webhook")
	assert.Equal(t, 2, calls, "an open circuit does not call through")
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker(&Config{
		Name:             "recovering",
		FailureThreshold: 1,
		RecoveryTimeout:  20 * time.Millisecond,
		SuccessThreshold: 1,
		OnStateChange: func(_, from, to string) {
			transitions = append(transitions, from+"->"+to)
		},
	})

	require.Error(t, cb.Call(func() error { return errDownstream }))
	require.Equal(t, "open", cb.State())

	assert.Eventually(t, func() bool { return cb.State() == "half-open" }, time.Second, 5*time.Millisecond)

	require.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, "closed", cb.State())
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestCircuitBreaker_IgnoresNonFailures(t *testing.T) {
	rejected := errors.New("rejected by peer")
	cb := NewCircuitBreaker(&Config{
		Name:             "selective",
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
		IsFailure:        func(err error) bool { return !errors.Is(err, rejected) },
	})

	for range 3 {
		assert.ErrorIs(t, cb.Call(func() error { return rejected }), rejected)
	}
	assert.Equal(t, "closed", cb.State())
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(nil)
	assert.Equal(t, "default", cb.Name())
	assert.Equal(t, "closed", cb.State())
	assert.NoError(t, cb.Call(func() error { return nil }))
}
