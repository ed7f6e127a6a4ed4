package dockerfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusmoore/shipyard/internal/core/domain"
)

func TestRender_Layout(t *testing.T) {
	for _, v := range Variants() {
		content, err := Render(v)
		require.NoError(t, err, v)

		assert.Equal(t, domain.ListenPort, ExposedPort(content), v)
		assert.Contains(t, content, "-o "+domain.BinaryPath, v)
		assert.Contains(t, content, "WORKDIR "+domain.AppDir, v)
		assert.Contains(t, content, "COPY static "+domain.StaticDir, v)
		assert.Contains(t, content, "COPY templates "+domain.TemplatesDir, v)
		assert.Contains(t, content, `ENTRYPOINT ["`+domain.BinaryPath+`"]`, v)
	}
}

func TestRender_VariantsDifferOnlyInBases(t *testing.T) {
	bookworm, err := Render(domain.VariantBookworm)
	require.NoError(t, err)
	alpine, err := Render(domain.VariantAlpine)
	require.NoError(t, err)

	assert.Contains(t, bookworm, "FROM golang:1.24-bookworm AS builder")
	assert.Contains(t, bookworm, "FROM debian:bookworm-slim")
	assert.Contains(t, alpine, "FROM golang:1.24-alpine AS builder")
	assert.Contains(t, alpine, "FROM alpine:3.21")

	// Outside the base images and the package install step the recipes
	// are identical.
	assert.Equal(t, strip(bookworm), strip(alpine))
}

// strip removes the lines that legitimately differ between variants.
func strip(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "FROM ") ||
			strings.HasPrefix(trimmed, "RUN apt-get") ||
			strings.HasPrefix(trimmed, "RUN apk") ||
			strings.HasPrefix(trimmed, "&& rm -rf /var/lib/apt") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func TestRender_UnknownVariant(t *testing.T) {
	_, err := Render(domain.Variant("windows"))
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Dockerfile", Filename(domain.VariantBookworm))
	assert.Equal(t, "Dockerfile.alpine", Filename(domain.VariantAlpine))
}

func TestExposedPort_None(t *testing.T) {
	assert.Equal(t, -1, ExposedPort("FROM scratch\n"))
}
