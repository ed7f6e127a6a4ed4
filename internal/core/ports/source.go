package ports

import "context"

// SourceFetcher materializes a source tree to build from.
type SourceFetcher interface {
	// Fetch clones repoURL (optionally a specific branch) into dir.
	Fetch(ctx context.Context, repoURL, branch, dir string) error
}
