package config

import (
	"context"
	"errors"
	"testing"

	"github.com/akeren/levelup-fit/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationConfig_DrainRunsHooksInOrder(t *testing.T) {
	ac := &ApplicationConfig{Logger: log.NewLoggerWithJSONOutput()}

	var calls []string
	ac.OnShutdown(func(context.Context) error {
		calls = append(calls, "first")
		return nil
	})
	ac.OnShutdown(func(context.Context) error {
		calls = append(calls, "second")
		return errors.New("still busy")
	})
	ac.OnShutdown(func(context.Context) error {
		calls = append(calls, "third")
		return nil
	})

	err := ac.Drain(context.Background())

	assert.EqualError(t, err, "still busy")
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestApplicationConfig_DrainWithoutHooks(t *testing.T) {
	ac := &ApplicationConfig{}
	assert.NoError(t, ac.Drain(context.Background()))
}

func TestLoadApplicationConfiguration_SimulatedNeedsNoBackends(t *testing.T) {
	settings, err := parseSettings(testEnv(nil))
	require.NoError(t, err)

	logger := log.NewLoggerWithJSONOutput()
	ac, err := LoadApplicationConfiguration(logger, settings, false)
	require.NoError(t, err)
	t.Cleanup(ac.Cleanup)

	assert.Nil(t, ac.DB)
	assert.Nil(t, ac.Cache)
	assert.Nil(t, ac.TracingShutdown)
	require.NotNil(t, ac.RouterService)
	assert.Equal(t, "simulated", ac.Waitlist.Registrar)
	assert.Same(t, settings, ac.Settings)
}

func TestLoadApplicationConfiguration_AutoMigrateGuard(t *testing.T) {
	settings, err := parseSettings(testEnv(map[string]string{"APP_ENV": "production"}))
	require.NoError(t, err)

	_, err = LoadApplicationConfiguration(log.NewLoggerWithJSONOutput(), settings, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--auto-migrate is not allowed")
}

func TestLoadApplicationConfiguration_DatabaseRegistrarNeedsDatabase(t *testing.T) {
	settings, err := parseSettings(testEnv(map[string]string{"WAITLIST_REGISTRAR": "database"}))
	require.NoError(t, err)

	_, err = LoadApplicationConfiguration(log.NewLoggerWithJSONOutput(), settings, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_HOST")
}
