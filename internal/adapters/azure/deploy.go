package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// Deployer submits rendered templates to the Resource Manager
// deployments API. The engine owns create-or-update semantics, ordering
// and error reporting; this client only hands the desired state over and
// waits for a terminal answer.
type Deployer struct {
	cred    azcore.TokenCredential
	options *arm.ClientOptions
	// PollInterval between provisioning-state checks.
	PollInterval time.Duration
}

// NewDeployer creates a deployer for the public cloud.
func NewDeployer(cred azcore.TokenCredential) *Deployer {
	return &Deployer{cred: cred, PollInterval: 10 * time.Second}
}

// NewDeployerWithOptions overrides client behavior, for sovereign clouds
// and tests.
func NewDeployerWithOptions(cred azcore.TokenCredential, options *arm.ClientOptions) *Deployer {
	d := NewDeployer(cred)
	d.options = options
	return d
}

// DeploymentResult is the engine's terminal answer for a deployment.
type DeploymentResult struct {
	ProvisioningState string
	Outputs           map[string]string
}

// Apply submits template as an incremental deployment named name into
// the given subscription and resource group, then polls until the engine
// reports a terminal state. Engine errors are returned verbatim.
func (d *Deployer) Apply(ctx context.Context, subscription, resourceGroup, name string, template []byte) (*DeploymentResult, error) {
	var doc map[string]any
	if err := json.Unmarshal(template, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}

	client, err := armresources.NewDeploymentsClient(subscription, d.cred, d.options)
	if err != nil {
		return nil, fmt.Errorf("failed to create deployments client: %w", err)
	}

	poller, err := client.BeginCreateOrUpdate(ctx, resourceGroup, name, armresources.Deployment{
		Properties: &armresources.DeploymentProperties{
			Mode:     to.Ptr(armresources.DeploymentModeIncremental),
			Template: doc,
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to submit deployment: %w", err)
	}

	resp, err := poller.PollUntilDone(ctx, &runtime.PollUntilDoneOptions{Frequency: d.PollInterval})
	if err != nil {
		return nil, fmt.Errorf("deployment failed: %w", err)
	}

	result := &DeploymentResult{Outputs: map[string]string{}}
	props := resp.Properties
	if props == nil {
		return result, nil
	}
	if props.ProvisioningState != nil {
		result.ProvisioningState = string(*props.ProvisioningState)
	}
	if outputs, ok := props.Outputs.(map[string]any); ok {
		for k, v := range outputs {
			if entry, ok := v.(map[string]any); ok {
				result.Outputs[k] = fmt.Sprint(entry["value"])
			}
		}
	}
	return result, nil
}
