package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPage_Stdout(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, RenderPage(nil, &out))
	assert.True(t, strings.HasPrefix(out.String(), "<!DOCTYPE html>"))
	assert.Contains(t, out.String(), `data-theme="light"`)
}

func TestRenderPage_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neural.html")

	require.NoError(t, RenderPage([]string{"neural", path}, &bytes.Buffer{}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `data-theme="neural"`)
}

func TestRenderPage_UnknownThemeLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sepia.html")

	assert.Error(t, RenderPage([]string{"sepia", path}, &bytes.Buffer{}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRenderPage_TooManyArguments(t *testing.T) {
	assert.Error(t, RenderPage([]string{"light", "a.html", "extra"}, &bytes.Buffer{}))
}
