package commands

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jusmoore/shipyard/internal/adapters/azure"
	"github.com/jusmoore/shipyard/internal/arm"
	"github.com/jusmoore/shipyard/internal/core/domain"
)

// paramFlags binds the template parameters to flags, with an optional
// YAML parameters file as the base layer. Flags win over the file.
type paramFlags struct {
	file     string
	appName  string
	location string
	sku      string
	imageTag string
	repoURL  string
	branch   string
}

func (f *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "params", "p", "", "YAML parameters file")
	cmd.Flags().StringVar(&f.appName, "app", "", "Application name, seeds all resource names")
	cmd.Flags().StringVar(&f.location, "location", "", "Region (default: resource group location)")
	cmd.Flags().StringVar(&f.sku, "sku", "", "Hosting plan tier (default "+domain.DefaultSKU+")")
	cmd.Flags().StringVar(&f.imageTag, "image", "", "Container image and tag the web app runs")
	cmd.Flags().StringVar(&f.repoURL, "repo", "", "Git repository for the source-control binding")
	cmd.Flags().StringVar(&f.branch, "branch", "", "Branch for the source-control binding")
}

func (f *paramFlags) load() (domain.Parameters, error) {
	var p domain.Parameters
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return p, fmt.Errorf("failed to read parameters file: %w", err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("failed to parse parameters file: %w", err)
		}
	}
	if f.appName != "" {
		p.AppName = f.appName
	}
	if f.location != "" {
		p.Location = f.location
	}
	if f.sku != "" {
		p.SKU = f.sku
	}
	if f.imageTag != "" {
		p.ImageTag = f.imageTag
	}
	if f.repoURL != "" {
		p.RepoURL = f.repoURL
	}
	if f.branch != "" {
		p.Branch = f.branch
	}
	return p, nil
}

// Render returns the command that writes the deployment template.
func Render() *cobra.Command {
	var (
		flags paramFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the deployment template",
		RunE: func(_ *cobra.Command, _ []string) error {
			params, err := flags.load()
			if err != nil {
				return err
			}
			tpl, err := arm.Render(params)
			if err != nil {
				return err
			}
			if err := arm.Validate(tpl); err != nil {
				return err
			}
			data, err := tpl.Marshal()
			if err != nil {
				return err
			}
			if out == "-" {
				_, err = os.Stdout.Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("failed to write template: %w", err)
			}
			outputs := arm.Outputs(params)
			log.WithFields(log.Fields{
				"path":     out,
				"registry": outputs.RegistryName,
				"hostname": outputs.Hostname,
			}).Info("template rendered")
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "azuredeploy.json", "Output path, - for stdout")

	return cmd
}

// Validate returns the command that checks a rendered template file.
func Validate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <template.json>",
		Short: "Validate a rendered deployment template",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read template: %w", err)
			}
			tpl, err := arm.Parse(data)
			if err != nil {
				return err
			}
			if err := arm.Validate(tpl); err != nil {
				return err
			}
			log.WithField("resources", len(tpl.Resources)).Info("template valid")
			return nil
		},
	}

	return cmd
}

// Deploy returns the command that submits the template to the Resource
// Manager engine and waits for a terminal state. Provisioning itself is
// the engine's job; failures surface verbatim.
//
// Environment variables:
//
//	AZURE_SUBSCRIPTION_ID: target subscription (required)
func Deploy() *cobra.Command {
	var (
		flags         paramFlags
		resourceGroup string
		name          string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Submit the template to the provisioning engine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			subscription := os.Getenv("AZURE_SUBSCRIPTION_ID")
			if subscription == "" {
				return fmt.Errorf("AZURE_SUBSCRIPTION_ID is not set")
			}

			params, err := flags.load()
			if err != nil {
				return err
			}
			tpl, err := arm.Render(params)
			if err != nil {
				return err
			}
			if err := arm.Validate(tpl); err != nil {
				return err
			}
			data, err := tpl.Marshal()
			if err != nil {
				return err
			}

			identity, err := azure.NewDefaultIdentity()
			if err != nil {
				return err
			}
			deployer := azure.NewDeployer(identity.Credential())

			log.WithFields(log.Fields{"group": resourceGroup, "deployment": name}).Info("submitting deployment")
			result, err := deployer.Apply(cmd.Context(), subscription, resourceGroup, name, data)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"state":    result.ProvisioningState,
				"registry": result.Outputs["registryName"],
				"hostname": result.Outputs["hostname"],
			}).Info("deployment finished")
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&resourceGroup, "group", "g", "", "Target resource group")
	cmd.Flags().StringVar(&name, "name", "shipyard", "Deployment name")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}
