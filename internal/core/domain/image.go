package domain

// Variant selects one of the two image recipes. Both produce the same
// filesystem layout; they differ in base-image tags and packaging steps.
type Variant string

const (
	VariantBookworm Variant = "bookworm"
	VariantAlpine   Variant = "alpine"
)

// Fixed layout of the runtime image. The web app resolves its asset
// directories relative to the working directory, so these three paths are
// the contract between the build pipeline and the application.
const (
	AppDir       = "/app"
	BinaryPath   = "/app/server"
	StaticDir    = "/app/static"
	TemplatesDir = "/app/templates"
)

// ListenPort is the port the application listens on inside the container.
// The hosting environment maps its ingress to it via WEBSITES_PORT.
const ListenPort = 8000

// BuildRequest describes one image build.
type BuildRequest struct {
	// ContextDir is the build context. Empty when RepoURL is set, in which
	// case the context is a fresh shallow clone.
	ContextDir string
	// RepoURL optionally points at a git repository to clone and build.
	RepoURL string
	// Branch to check out when cloning. Empty means the remote default.
	Branch string
	// Dockerfile is the path of the recipe inside the context.
	Dockerfile string
	// Tag is the resulting image reference, e.g. "myacr.azurecr.io/app:v3".
	Tag string
	// Variant picks the recipe to generate when the context has none.
	Variant Variant
	// NoCache disables layer caching.
	NoCache bool
}

// BuildResult is the outcome of a successful build.
type BuildResult struct {
	// ImageID is the engine's identifier for the built image.
	ImageID string
	// Tag the image was labelled with.
	Tag string
	// Logs holds the raw build output, kept for diagnostics.
	Logs string
}

// ImageManifest is the subset of image configuration the verify step
// checks against the expected runtime contract.
type ImageManifest struct {
	ID           string
	ExposedPorts []string
	Entrypoint   []string
	WorkingDir   string
	Env          []string
}

// RegistryAuth carries credentials for pushing to a registry.
type RegistryAuth struct {
	ServerAddress string
	Username      string
	Password      string
}
