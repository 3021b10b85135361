package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akeren/levelup-fit/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAutoMigrateAllowed(t *testing.T) {
	for _, env := range []string{"", "dev", "development", "local", "test", "testing", "DEV", "  Local  "} {
		assert.NoError(t, ValidateAutoMigrateAllowed(env), "env %q", env)
	}

	for _, env := range []string{"prod", "production", "staging", "preprod", " Production ", "qa"} {
		assert.Error(t, ValidateAutoMigrateAllowed(env), "env %q", env)
	}
}

func TestInitializeEnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("LEVELUP_TEST_FROM_FILE=loaded\nLEVELUP_TEST_PRESET=file\n"), 0o600))

	t.Setenv("SKIP_DOTENV", "")
	t.Setenv("LEVELUP_TEST_PRESET", "process")
	t.Setenv("LEVELUP_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("LEVELUP_TEST_FROM_FILE"))

	InitializeEnvFile(log.NewLoggerWithJSONOutput(), file)

	assert.Equal(t, "loaded", os.Getenv("LEVELUP_TEST_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("LEVELUP_TEST_PRESET"), "process environment wins")
}

func TestInitializeEnvFile_Skip(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("LEVELUP_TEST_SKIPPED=loaded\n"), 0o600))

	t.Setenv("SKIP_DOTENV", "true")
	t.Setenv("LEVELUP_TEST_SKIPPED", "")
	require.NoError(t, os.Unsetenv("LEVELUP_TEST_SKIPPED"))

	InitializeEnvFile(log.NewLoggerWithJSONOutput(), file)

	assert.Empty(t, os.Getenv("LEVELUP_TEST_SKIPPED"))
}
