package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jusmoore/shipyard/internal/adapters/docker"
	"github.com/jusmoore/shipyard/internal/adapters/git"
	"github.com/jusmoore/shipyard/internal/core/domain"
	"github.com/jusmoore/shipyard/internal/dockerfile"
)

// Dockerfile returns the command that writes the image recipes to disk.
//
// Both variants produce the same layout (/app/server, /app/static,
// /app/templates, port 8000); they differ in base-image tags.
func Dockerfile() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "dockerfile",
		Short: "Write the image recipe variants",
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, v := range dockerfile.Variants() {
				content, err := dockerfile.Render(v)
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, dockerfile.Filename(v))
				if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				log.WithField("path", path).Info("wrote recipe")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the recipes into")

	return cmd
}

// Build returns the command that builds the container image.
//
// The context is either a local directory or a repository to clone.
// A compile error in any layer aborts the build; no image is tagged.
func Build() *cobra.Command {
	var (
		contextDir string
		repoURL    string
		branch     string
		recipe     string
		variant    string
		tag        string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the container image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			adapter, err := docker.NewAdapter(git.NewFetcher())
			if err != nil {
				return err
			}
			result, err := adapter.Build(cmd.Context(), domain.BuildRequest{
				ContextDir: contextDir,
				RepoURL:    repoURL,
				Branch:     branch,
				Dockerfile: recipe,
				Variant:    domain.Variant(variant),
				Tag:        tag,
				NoCache:    noCache,
			})
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"image": result.ImageID, "tag": result.Tag}).Info("build complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&contextDir, "context", ".", "Build context directory")
	cmd.Flags().StringVar(&repoURL, "repo", "", "Git repository to clone and build instead of --context")
	cmd.Flags().StringVar(&branch, "branch", "", "Branch to check out when cloning")
	cmd.Flags().StringVar(&recipe, "dockerfile", "", "Recipe path inside the context (default: generated)")
	cmd.Flags().StringVar(&variant, "variant", string(domain.VariantBookworm), "Recipe variant (bookworm or alpine)")
	cmd.Flags().StringVar(&tag, "tag", "", "Image reference to tag the result with")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable layer caching")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}

// Push returns the command that uploads a built image to its registry.
//
// Environment variables:
//
//	REGISTRY_USERNAME, REGISTRY_PASSWORD: registry credentials
func Push() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push the image to its registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			adapter, err := docker.NewAdapter(nil)
			if err != nil {
				return err
			}
			auth := domain.RegistryAuth{
				ServerAddress: registryHost(tag),
				Username:      os.Getenv("REGISTRY_USERNAME"),
				Password:      os.Getenv("REGISTRY_PASSWORD"),
			}
			if err := adapter.Push(cmd.Context(), tag, auth); err != nil {
				return err
			}
			log.WithField("tag", tag).Info("push complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Image reference to push")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}

// registryHost extracts the registry component of an image reference.
func registryHost(tag string) string {
	parts := strings.SplitN(tag, "/", 2)
	if len(parts) == 2 && strings.ContainsAny(parts[0], ".:") {
		return parts[0]
	}
	return ""
}
