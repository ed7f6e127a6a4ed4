package arm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jusmoore/shipyard/internal/core/domain"
)

// Resource types declared by the template.
const (
	TypeServerFarm     = "Microsoft.Web/serverfarms"
	TypeSite           = "Microsoft.Web/sites"
	TypeSourceControl  = "Microsoft.Web/sites/sourcecontrols"
	TypeStorageAccount = "Microsoft.Storage/storageAccounts"
	TypeBlobContainer  = "Microsoft.Storage/storageAccounts/blobServices/containers"
	TypeRegistry       = "Microsoft.ContainerRegistry/registries"
	TypeRoleAssignment = "Microsoft.Authorization/roleAssignments"
)

// DefaultContainer is the blob container provisioned alongside the
// storage account and handed to the app via STORAGE_CONTAINER.
const DefaultContainer = "data"

// Names derives every resource name from the application name. The
// derivation is deterministic so that re-rendering, and therefore
// re-applying, is a no-op.
type Names struct {
	Plan     string
	Site     string
	Registry string
	Storage  string
}

// DeriveNames computes resource names from the app name. Registry and
// storage account names must be lowercase alphanumeric; storage accounts
// are additionally capped at 24 characters.
func DeriveNames(appName string) Names {
	alnum := sanitize(appName)
	storage := alnum + "stor"
	if len(storage) > 24 {
		storage = storage[:24]
	}
	return Names{
		Plan:     "plan-" + appName,
		Site:     appName,
		Registry: alnum + "acr",
		Storage:  storage,
	}
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Render produces the deployment template for the given parameters.
func Render(p domain.Parameters) (*Template, error) {
	if p.AppName == "" {
		return nil, fmt.Errorf("%w: appName is required", domain.ErrInvalidTemplate)
	}
	if p.ImageTag == "" {
		return nil, fmt.Errorf("%w: imageTag is required", domain.ErrInvalidTemplate)
	}
	if sanitize(p.AppName) == "" {
		return nil, fmt.Errorf("%w: appName %q has no usable characters", domain.ErrInvalidTemplate, p.AppName)
	}

	sku := p.SKU
	if sku == "" {
		sku = domain.DefaultSKU
	}
	location := p.Location
	if location == "" {
		location = resourceGroupLocation
	}

	names := DeriveNames(p.AppName)
	loginServer := names.Registry + ".azurecr.io"

	planID := resourceID(TypeServerFarm, names.Plan)
	siteID := resourceID(TypeSite, names.Site)
	registryID := resourceID(TypeRegistry, names.Registry)
	storageID := resourceID(TypeStorageAccount, names.Storage)

	resources := []Resource{
		{
			Type:       TypeServerFarm,
			APIVersion: apiServerFarms,
			Name:       names.Plan,
			Location:   location,
			Kind:       "linux",
			SKU:        &SKU{Name: sku},
			Properties: map[string]any{
				// Linux plans must be marked reserved.
				"reserved": true,
			},
		},
		{
			Type:       TypeRegistry,
			APIVersion: apiRegistries,
			Name:       names.Registry,
			Location:   location,
			SKU:        &SKU{Name: "Basic"},
			Properties: map[string]any{
				"adminUserEnabled": false,
			},
		},
		{
			Type:       TypeStorageAccount,
			APIVersion: apiStorageAccounts,
			Name:       names.Storage,
			Location:   location,
			Kind:       "StorageV2",
			SKU:        &SKU{Name: "Standard_LRS"},
			Properties: map[string]any{
				"allowBlobPublicAccess": false,
				"minimumTlsVersion":     "TLS1_2",
			},
		},
		{
			Type:       TypeBlobContainer,
			APIVersion: apiBlobContainers,
			Name:       names.Storage + "/default/" + DefaultContainer,
			DependsOn:  []string{storageID},
			Properties: map[string]any{
				"publicAccess": "None",
			},
		},
		{
			Type:       TypeSite,
			APIVersion: apiSites,
			Name:       names.Site,
			Location:   location,
			Kind:       "app,linux,container",
			Identity:   &Identity{Type: "SystemAssigned"},
			DependsOn:  []string{planID, registryID, storageID},
			Properties: map[string]any{
				"serverFarmId": planID,
				"httpsOnly":    true,
				"siteConfig": map[string]any{
					"linuxFxVersion":             "DOCKER|" + loginServer + "/" + p.ImageTag,
					"acrUseManagedIdentityCreds": true,
					"alwaysOn":                   false,
					"appSettings": []map[string]any{
						{"name": "WEBSITES_PORT", "value": strconv.Itoa(domain.ListenPort)},
						{"name": "STORAGE_ACCOUNT", "value": names.Storage},
						{"name": "STORAGE_CONTAINER", "value": DefaultContainer},
					},
				},
			},
		},
		{
			Type:       TypeRoleAssignment,
			APIVersion: apiRoleAssignments,
			Name:       assignmentGUID(TypeRegistry, names.Registry, domain.RoleAcrPull),
			Scope:      resourceScope(TypeRegistry, names.Registry),
			DependsOn:  []string{siteID, registryID},
			Properties: map[string]any{
				"roleDefinitionId": roleDefinitionID(domain.RoleAcrPull),
				"principalId":      principalReference(names.Site),
				"principalType":    "ServicePrincipal",
			},
		},
		{
			Type:       TypeRoleAssignment,
			APIVersion: apiRoleAssignments,
			Name:       assignmentGUID(TypeStorageAccount, names.Storage, domain.RoleStorageBlobDataContributor),
			Scope:      resourceScope(TypeStorageAccount, names.Storage),
			DependsOn:  []string{siteID, storageID},
			Properties: map[string]any{
				"roleDefinitionId": roleDefinitionID(domain.RoleStorageBlobDataContributor),
				"principalId":      principalReference(names.Site),
				"principalType":    "ServicePrincipal",
			},
		},
		{
			Type:       TypeRoleAssignment,
			APIVersion: apiRoleAssignments,
			Name:       assignmentGUID(TypeStorageAccount, names.Storage, domain.RoleStorageQueueDataContributor),
			Scope:      resourceScope(TypeStorageAccount, names.Storage),
			DependsOn:  []string{siteID, storageID},
			Properties: map[string]any{
				"roleDefinitionId": roleDefinitionID(domain.RoleStorageQueueDataContributor),
				"principalId":      principalReference(names.Site),
				"principalType":    "ServicePrincipal",
			},
		},
	}

	if p.RepoURL != "" {
		branch := p.Branch
		if branch == "" {
			branch = "main"
		}
		resources = append(resources, Resource{
			Type:       TypeSourceControl,
			APIVersion: apiSourceControls,
			Name:       names.Site + "/web",
			DependsOn:  []string{siteID},
			Properties: map[string]any{
				"repoUrl":             p.RepoURL,
				"branch":              branch,
				"isManualIntegration": true,
			},
		})
	}

	// Parameters are resolved here rather than declared in the
	// template: the emitted document is self-contained, so the engine
	// needs no parameter file and re-applying it is trivially a no-op.
	return &Template{
		Schema:         SchemaURL,
		ContentVersion: ContentVersion,
		Resources:      resources,
		Outputs: map[string]Output{
			"registryName": {Type: "string", Value: names.Registry},
			"hostname": {
				Type:  "string",
				Value: fmt.Sprintf("[reference(resourceId('%s', '%s')).defaultHostName]", TypeSite, names.Site),
			},
		},
	}, nil
}

// resourceScope is the scope expression of an extension resource such as
// a role assignment.
func resourceScope(resType, name string) string {
	return resType + "/" + name
}

// Outputs computes the concrete output values for a parameter set, for
// callers that want them without consulting the engine.
func Outputs(p domain.Parameters) domain.Outputs {
	names := DeriveNames(p.AppName)
	return domain.Outputs{
		RegistryName: names.Registry,
		Hostname:     names.Site + ".azurewebsites.net",
	}
}
