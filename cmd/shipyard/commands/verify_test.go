package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jusmoore/shipyard/internal/core/domain"
)

func TestCheckManifest(t *testing.T) {
	valid := func() domain.ImageManifest {
		return domain.ImageManifest{
			ExposedPorts: []string{"8000/tcp"},
			Entrypoint:   []string{domain.BinaryPath},
			WorkingDir:   domain.AppDir,
		}
	}

	tests := []struct {
		name    string
		mutate  func(m *domain.ImageManifest)
		wantErr string
	}{
		{"valid", func(*domain.ImageManifest) {}, ""},
		{"no ports", func(m *domain.ImageManifest) { m.ExposedPorts = nil }, "expose"},
		{"wrong port", func(m *domain.ImageManifest) { m.ExposedPorts = []string{"8080/tcp"} }, "expose"},
		{"extra port", func(m *domain.ImageManifest) {
			m.ExposedPorts = []string{"443/tcp", "8000/tcp"}
		}, "expose"},
		{"no entrypoint", func(m *domain.ImageManifest) { m.Entrypoint = nil }, "entrypoint"},
		{"wrong entrypoint", func(m *domain.ImageManifest) { m.Entrypoint = []string{"/bin/sh"} }, "entrypoint"},
		{"wrong workdir", func(m *domain.ImageManifest) { m.WorkingDir = "/srv" }, "working directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(&m)

			err := checkManifest(m)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
