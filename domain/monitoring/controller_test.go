package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akeren/levelup-fit/config/router"
	"github.com/akeren/levelup-fit/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeCache struct {
	err error
}

func (f fakeCache) Ping(context.Context) error {
	return f.err
}

func healthOf(t *testing.T, deps Dependencies) HealthStatus {
	t.Helper()

	logger := log.NewLoggerWithJSONOutput()
	cfg := router.DefaultConfig()
	cfg.RateLimitRequests = 1000
	rs := router.CreateRouterService(logger, nil, cfg)
	t.Cleanup(rs.Cleanup)
	rs.MountController(NewMonitoringControllerFactory(logger, deps).CreateController())

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data    HealthStatus `json:"data"`
		Message string       `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LevelUp Fit health check completed", resp.Message)
	return resp.Data
}

func TestHealth_WithoutOptionalDependencies(t *testing.T) {
	status := healthOf(t, Dependencies{Registrar: "simulated"})

	assert.Equal(t, 0, status.Database)
	assert.Equal(t, 0, status.Cache)
	assert.Equal(t, "simulated", status.Registrar)
}

func TestHealth_ProbesDatabaseAndCache(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	status := healthOf(t, Dependencies{DB: db, Cache: fakeCache{}, Registrar: "database"})
	assert.Equal(t, 1, status.Database)
	assert.Equal(t, 1, status.Cache)

	status = healthOf(t, Dependencies{Cache: fakeCache{err: errors.New("connection refused")}})
	assert.Equal(t, 0, status.Cache)
}

func TestHealth_IsRateLimited(t *testing.T) {
	logger := log.NewLoggerWithJSONOutput()
	rs := router.CreateRouterService(logger, nil, router.DefaultConfig())
	t.Cleanup(rs.Cleanup)
	rs.MountController(NewMonitoringControllerFactory(logger, Dependencies{}).CreateController())

	var last int
	for range monitoringRequestsPerMinute + 1 {
		w := httptest.NewRecorder()
		rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
