package commands

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jusmoore/shipyard/internal/adapters/docker"
	"github.com/jusmoore/shipyard/internal/core/domain"
)

// Verify returns the command that checks a built image against the
// runtime contract: exactly port 8000 exposed, the binary at its fixed
// path as entrypoint, /app as working directory. With --run it also
// starts the image locally and probes it over HTTP.
func Verify() *cobra.Command {
	var (
		tag      string
		smokeRun bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a built image matches the runtime contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			adapter, err := docker.NewAdapter(nil)
			if err != nil {
				return err
			}
			manifest, err := adapter.Inspect(cmd.Context(), tag)
			if err != nil {
				return err
			}
			if err := checkManifest(manifest); err != nil {
				return err
			}
			log.WithField("image", manifest.ID).Info("image configuration ok")

			if smokeRun {
				logs, err := adapter.SmokeRun(cmd.Context(), tag, domain.ListenPort)
				if err != nil {
					if logs != "" {
						log.Info("container logs:\n" + logs)
					}
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Image reference to verify")
	cmd.Flags().BoolVar(&smokeRun, "run", false, "Also start the image locally and probe it")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}

func checkManifest(m domain.ImageManifest) error {
	wantPort := fmt.Sprintf("%d/tcp", domain.ListenPort)
	if len(m.ExposedPorts) != 1 || m.ExposedPorts[0] != wantPort {
		return fmt.Errorf("image must expose exactly %s, got %v", wantPort, m.ExposedPorts)
	}
	if len(m.Entrypoint) == 0 || m.Entrypoint[0] != domain.BinaryPath {
		return fmt.Errorf("image entrypoint must be %s, got %v", domain.BinaryPath, m.Entrypoint)
	}
	if m.WorkingDir != domain.AppDir {
		return fmt.Errorf("image working directory must be %s, got %q", domain.AppDir, m.WorkingDir)
	}
	return nil
}
