package log

import (
	"net/http"
	"time"
)

// CorrelationHeader carries the correlation ID across service boundaries.
const CorrelationHeader = "X-Correlation-ID"

// Transport stamps outgoing requests with the caller's correlation ID and
// logs each round trip.
type Transport struct {
	Base   http.RoundTripper
	Logger *Logger
}

func NewTransport(logger *Logger, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Logger: logger}
}

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get(CorrelationHeader) == "" {
		id := GetOrGenerateCorrelationID(r.Context())
		r = r.Clone(r.Context())
		r.Header.Set(CorrelationHeader, id)
	}

	start := time.Now()
	resp, err := t.Base.RoundTrip(r)

	logger := GetLoggerInstanceFromContext(r.Context(), t.Logger)
	if err != nil {
		logger.Warn("Outgoing request failed", "method", r.Method, "host", r.URL.Host, "duration", time.Since(start), "error", err)
		return nil, err
	}

	logger.Debug("Outgoing request", "method", r.Method, "host", r.URL.Host, "status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}
