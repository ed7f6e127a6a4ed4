package docker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusmoore/shipyard/internal/core/domain"
)

func TestDrainBuildStream_CollectsOutput(t *testing.T) {
	stream := strings.NewReader(
		`{"stream":"Step 1/5 : FROM golang:1.24-bookworm AS builder\n"}` + "\n" +
			`{"stream":" ---> abc123\n"}` + "\n" +
			`{"stream":"Successfully built abc123\n"}` + "\n")

	logs, err := drainBuildStream(stream)
	require.NoError(t, err)
	assert.Contains(t, logs, "Step 1/5")
	assert.Contains(t, logs, "Successfully built")
}

func TestDrainBuildStream_ReportsError(t *testing.T) {
	stream := strings.NewReader(
		`{"stream":"Step 4/5 : RUN go build ./cmd/server\n"}` + "\n" +
			`{"errorDetail":{"message":"exit code: 1"},"error":"The command '/bin/sh -c go build ./cmd/server' returned a non-zero code: 1"}` + "\n")

	logs, err := drainBuildStream(stream)
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.Contains(t, err.Error(), "non-zero code")
	// Output up to the failure is preserved for diagnostics.
	assert.Contains(t, logs, "Step 4/5")
}

func TestDrainBuildStream_MalformedStream(t *testing.T) {
	_, err := drainBuildStream(strings.NewReader("not json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrBuildFailed)
}

func TestEnsureDockerfile_GeneratesRecipe(t *testing.T) {
	dir := t.TempDir()

	name, err := ensureDockerfile(dir, domain.VariantAlpine)
	require.NoError(t, err)
	assert.Equal(t, "Dockerfile.alpine", name)

	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(content), "EXPOSE 8000")
}

func TestEnsureDockerfile_KeepsExistingRecipe(t *testing.T) {
	dir := t.TempDir()
	custom := []byte("FROM scratch\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), custom, 0o644))

	name, err := ensureDockerfile(dir, domain.VariantBookworm)
	require.NoError(t, err)
	assert.Equal(t, "Dockerfile", name)

	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, custom, content)
}

func TestEnsureDockerfile_DefaultsVariant(t *testing.T) {
	dir := t.TempDir()

	name, err := ensureDockerfile(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "Dockerfile", name)
}
