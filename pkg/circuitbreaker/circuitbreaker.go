package circuitbreaker

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type Config struct {
	Name string
	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold int
	// RecoveryTimeout is how long the circuit stays open before probing.
	RecoveryTimeout time.Duration
	// SuccessThreshold consecutive half-open successes close it again.
	SuccessThreshold int
	// IsFailure decides which errors count against the circuit. By default
	// every error does.
	IsFailure     func(error) bool
	OnStateChange func(name, from, to string)
}

func DefaultConfig() *Config {
	return &Config{
		Name:             "default",
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
		SuccessThreshold: 3,
	}
}

// CircuitBreaker guards calls to one downstream.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// NewCircuitBreaker applies defaults when config is nil.
func NewCircuitBreaker(config *Config) *CircuitBreaker {
	if config == nil {
		config = DefaultConfig()
	}

	failureThreshold := uint32(max(config.FailureThreshold, 1))
	isFailure := config.IsFailure

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: uint32(max(config.SuccessThreshold, 1)),
		Timeout:     config.RecoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return isFailure != nil && !isFailure(err)
		},
	}
	if config.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			config.OnStateChange(name, from.String(), to.String())
		}
	}

	return &CircuitBreaker{breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Call runs fn unless the circuit is open. Rejections wrap ErrCircuitOpen.
func (cb *CircuitBreaker) Call(fn func() error) error {
	_, err := cb.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s (%v)", ErrCircuitOpen, cb.breaker.Name(), err)
	}
	return err
}

// State is "closed", "half-open" or "open".
func (cb *CircuitBreaker) State() string {
	return cb.breaker.State().String()
}

func (cb *CircuitBreaker) Name() string {
	return cb.breaker.Name()
}
