package ports

import (
	"context"

	"github.com/jusmoore/shipyard/internal/core/domain"
)

// ImageBuilder defines operations for producing and shipping container
// images. This interface allows swapping the Docker engine for another
// builder (buildkit, a remote build service) without touching callers.
type ImageBuilder interface {
	// Build produces an image from the request's context directory or
	// repository. Any engine-reported build error aborts with
	// domain.ErrBuildFailed and no image is tagged.
	Build(ctx context.Context, req domain.BuildRequest) (domain.BuildResult, error)

	// Push uploads a tagged image to its registry.
	Push(ctx context.Context, tag string, auth domain.RegistryAuth) error

	// Inspect returns the runtime-relevant configuration of a local image.
	Inspect(ctx context.Context, tag string) (domain.ImageManifest, error)
}

// SmokeRunner runs a built image locally to confirm it starts and serves.
type SmokeRunner interface {
	// SmokeRun starts a container from the image, probes the given
	// container port over the mapped host port, and tears the container
	// down. It returns the container logs collected during the run.
	SmokeRun(ctx context.Context, tag string, port int) (string, error)
}
