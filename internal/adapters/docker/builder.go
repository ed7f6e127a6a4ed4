// Package docker implements the image build pipeline against the Docker
// engine API: context assembly, build, push and inspection, plus a local
// smoke run used by the verify step.
package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	log "github.com/sirupsen/logrus"

	"github.com/jusmoore/shipyard/internal/core/domain"
	"github.com/jusmoore/shipyard/internal/core/ports"
	"github.com/jusmoore/shipyard/internal/dockerfile"
)

// Adapter implements ports.ImageBuilder and ports.SmokeRunner using the
// Docker SDK.
type Adapter struct {
	cli     *client.Client
	fetcher ports.SourceFetcher
}

// NewAdapter creates a Docker adapter. fetcher may be nil when builds
// never reference a remote repository.
func NewAdapter(fetcher ports.SourceFetcher) (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, fetcher: fetcher}, nil
}

// Build assembles the context and runs a single engine build. Any error
// reported in the build stream aborts with domain.ErrBuildFailed; the
// engine guarantees no partial image is tagged.
func (a *Adapter) Build(ctx context.Context, req domain.BuildRequest) (domain.BuildResult, error) {
	contextDir := req.ContextDir

	if req.RepoURL != "" {
		if a.fetcher == nil {
			return domain.BuildResult{}, fmt.Errorf("no source fetcher configured for repo %s", req.RepoURL)
		}
		tmpDir, err := os.MkdirTemp("", "shipyard-build-*")
		if err != nil {
			return domain.BuildResult{}, fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		log.WithFields(log.Fields{"repo": req.RepoURL, "branch": req.Branch}).Info("cloning source")
		if err := a.fetcher.Fetch(ctx, req.RepoURL, req.Branch, tmpDir); err != nil {
			return domain.BuildResult{}, fmt.Errorf("failed to clone repo: %w", err)
		}
		contextDir = tmpDir
	}

	dockerfilePath := req.Dockerfile
	if dockerfilePath == "" {
		name, err := ensureDockerfile(contextDir, req.Variant)
		if err != nil {
			return domain.BuildResult{}, err
		}
		dockerfilePath = name
	}

	tar, err := archive.TarWithOptions(contextDir, &archive.TarOptions{})
	if err != nil {
		return domain.BuildResult{}, fmt.Errorf("failed to create build context: %w", err)
	}
	defer tar.Close()

	log.WithField("tag", req.Tag).Info("building image")
	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:        []string{req.Tag},
		Dockerfile:  dockerfilePath,
		Remove:      true,
		ForceRemove: true,
		NoCache:     req.NoCache,
	})
	if err != nil {
		return domain.BuildResult{}, fmt.Errorf("failed to start build: %w", err)
	}
	defer resp.Body.Close()

	logs, err := drainBuildStream(resp.Body)
	if err != nil {
		return domain.BuildResult{Logs: logs}, err
	}

	inspect, _, err := a.cli.ImageInspectWithRaw(ctx, req.Tag)
	if err != nil {
		return domain.BuildResult{Logs: logs}, fmt.Errorf("built image not found: %w", err)
	}

	return domain.BuildResult{ImageID: inspect.ID, Tag: req.Tag, Logs: logs}, nil
}

// buildMessage is one line of the engine's build status stream.
type buildMessage struct {
	Stream      string `json:"stream"`
	ErrorDetail *struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
	Error string `json:"error"`
}

// drainBuildStream consumes the status stream until EOF, collecting
// output and surfacing the first reported error.
func drainBuildStream(r io.Reader) (string, error) {
	var out strings.Builder
	dec := json.NewDecoder(r)
	for {
		var msg buildMessage
		if err := dec.Decode(&msg); err != nil {
			if err == io.EOF {
				break
			}
			return out.String(), fmt.Errorf("failed to decode build output: %w", err)
		}
		out.WriteString(msg.Stream)
		if msg.Error != "" {
			return out.String(), fmt.Errorf("%w: %s", domain.ErrBuildFailed, msg.Error)
		}
	}
	return out.String(), nil
}

// ensureDockerfile writes the recipe for the requested variant into the
// context when the source tree does not ship one.
func ensureDockerfile(contextDir string, variant domain.Variant) (string, error) {
	if variant == "" {
		variant = domain.VariantBookworm
	}
	name := dockerfile.Filename(variant)
	path := filepath.Join(contextDir, name)
	if _, err := os.Stat(path); err == nil {
		return name, nil
	}
	content, err := dockerfile.Render(variant)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write dockerfile: %w", err)
	}
	return name, nil
}

// Push uploads a tagged image. The registry reports auth and quota
// failures through the same status stream as builds.
func (a *Adapter) Push(ctx context.Context, tag string, auth domain.RegistryAuth) error {
	encoded, err := registry.EncodeAuthConfig(registry.AuthConfig{
		Username:      auth.Username,
		Password:      auth.Password,
		ServerAddress: auth.ServerAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to encode registry auth: %w", err)
	}

	log.WithField("tag", tag).Info("pushing image")
	resp, err := a.cli.ImagePush(ctx, tag, types.ImagePushOptions{RegistryAuth: encoded})
	if err != nil {
		return fmt.Errorf("failed to start push: %w", err)
	}
	defer resp.Close()

	if _, err := drainBuildStream(resp); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}

// Inspect returns the runtime configuration of a local image.
func (a *Adapter) Inspect(ctx context.Context, tag string) (domain.ImageManifest, error) {
	inspect, _, err := a.cli.ImageInspectWithRaw(ctx, tag)
	if err != nil {
		return domain.ImageManifest{}, fmt.Errorf("failed to inspect image: %w", err)
	}

	var exposed []string
	if inspect.Config != nil {
		for port := range inspect.Config.ExposedPorts {
			exposed = append(exposed, string(port))
		}
	}
	sort.Strings(exposed)

	manifest := domain.ImageManifest{
		ID:           inspect.ID,
		ExposedPorts: exposed,
	}
	if inspect.Config != nil {
		manifest.Entrypoint = []string(inspect.Config.Entrypoint)
		manifest.WorkingDir = inspect.Config.WorkingDir
		manifest.Env = inspect.Config.Env
	}
	return manifest, nil
}
