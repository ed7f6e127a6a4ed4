// Package azure holds the platform adapters: managed-identity tokens,
// blob storage, and deployment submission to the Resource Manager engine.
package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// ScopeDevOps is the globally unique resource id of Azure DevOps; tokens
// for its REST APIs must carry it as their audience. The SDK clients for
// storage and Resource Manager derive their own scopes.
const ScopeDevOps = "499b84ac-1321-427f-aa17-267ca6975798/.default"

// Identity implements ports.TokenSource over an azcore credential.
type Identity struct {
	cred azcore.TokenCredential
}

// NewManagedIdentity builds a token source backed by the hosting
// platform's managed identity. No secret is configured on the app; the
// platform injects the credential endpoint.
func NewManagedIdentity() (*Identity, error) {
	cred, err := azidentity.NewManagedIdentityCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize managed identity: %w", err)
	}
	return &Identity{cred: cred}, nil
}

// NewDefaultIdentity builds a token source from the default credential
// chain (environment, workload identity, managed identity, CLI). Used by
// the deploy tool, which typically runs outside the platform.
func NewDefaultIdentity() (*Identity, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential chain: %w", err)
	}
	return &Identity{cred: cred}, nil
}

// NewIdentity wraps an existing credential, mainly for tests.
func NewIdentity(cred azcore.TokenCredential) *Identity {
	return &Identity{cred: cred}
}

// Token mints an access token for the given scope.
func (i *Identity) Token(ctx context.Context, scope string) (string, error) {
	tok, err := i.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{scope}})
	if err != nil {
		return "", fmt.Errorf("failed to query identity: %w", err)
	}
	return tok.Token, nil
}

// Credential exposes the underlying azcore credential for SDK clients.
func (i *Identity) Credential() azcore.TokenCredential {
	return i.cred
}
