// Package commands defines the deploy tool's CLI: image build and push,
// recipe generation, template rendering and validation, and deployment
// submission. Commands parse flags and delegate to the internal packages.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the shipyard CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipyard",
		Short: "Build, ship and provision the web app",
	}

	// Image pipeline
	cmd.AddCommand(Dockerfile())
	cmd.AddCommand(Build())
	cmd.AddCommand(Push())
	cmd.AddCommand(Verify())

	// Infrastructure pipeline
	cmd.AddCommand(Render())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Deploy())

	return cmd
}
