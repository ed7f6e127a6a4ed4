// Package git fetches source trees to build from.
package git

import (
	"context"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Fetcher implements ports.SourceFetcher with a shallow clone.
type Fetcher struct{}

// NewFetcher creates a git fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// Fetch clones repoURL into dir at depth 1. An empty branch means the
// remote default branch.
func (f *Fetcher) Fetch(ctx context.Context, repoURL, branch, dir string) error {
	opts := &gogit.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}
	if _, err := gogit.PlainCloneContext(ctx, dir, false, opts); err != nil {
		return fmt.Errorf("failed to clone %s: %w", repoURL, err)
	}
	return nil
}
