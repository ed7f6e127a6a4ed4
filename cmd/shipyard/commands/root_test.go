package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_CommandTree(t *testing.T) {
	root := Root()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"dockerfile", "build", "push", "verify", "render", "validate", "deploy"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestBuild_RequiresTag(t *testing.T) {
	cmd := Build()
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}

func TestRegistryHost(t *testing.T) {
	assert.Equal(t, "backendacr.azurecr.io", registryHost("backendacr.azurecr.io/backend:v3"))
	assert.Equal(t, "localhost:5000", registryHost("localhost:5000/app:dev"))
	assert.Equal(t, "", registryHost("backend:v3"))
	assert.Equal(t, "", registryHost("library/backend:v3"))
}

func TestParamFlags_FileAndFlagMerge(t *testing.T) {
	file := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(file, []byte("appName: backend\nimageTag: backend:v1\nsku: S1\n"), 0o644))

	flags := paramFlags{file: file, imageTag: "backend:v2"}
	p, err := flags.load()
	require.NoError(t, err)

	assert.Equal(t, "backend", p.AppName)
	// Flags win over the file.
	assert.Equal(t, "backend:v2", p.ImageTag)
	assert.Equal(t, "S1", p.SKU)
}

func TestParamFlags_MissingFile(t *testing.T) {
	flags := paramFlags{file: "/does/not/exist.yaml"}
	_, err := flags.load()
	assert.Error(t, err)
}
