// Package arm models the Resource Manager deployment template that
// provisions the hosting environment: plan, web app, storage account,
// container registry, role assignments and source-control binding.
//
// The package renders desired state only. Create-or-update semantics,
// ordering within the declared dependency graph and error reporting all
// belong to the Resource Manager engine that consumes the template.
package arm

import (
	"encoding/json"
	"fmt"
)

const (
	// SchemaURL identifies the resource-group deployment schema.
	SchemaURL = "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#"

	// ContentVersion is the template revision carried in every render.
	ContentVersion = "1.0.0.0"
)

// API versions pinned per resource provider.
const (
	apiServerFarms     = "2023-12-01"
	apiSites           = "2023-12-01"
	apiSourceControls  = "2023-12-01"
	apiStorageAccounts = "2023-05-01"
	apiBlobContainers  = "2023-05-01"
	apiRegistries      = "2023-11-01-preview"
	apiRoleAssignments = "2022-04-01"
)

// Template is a Resource Manager deployment template.
type Template struct {
	Schema         string               `json:"$schema"`
	ContentVersion string               `json:"contentVersion"`
	Parameters     map[string]Parameter `json:"parameters,omitempty"`
	Resources      []Resource           `json:"resources"`
	Outputs        map[string]Output    `json:"outputs"`
}

// Parameter declares a template input.
type Parameter struct {
	Type         string         `json:"type"`
	DefaultValue any            `json:"defaultValue,omitempty"`
	Metadata     *ParameterMeta `json:"metadata,omitempty"`
}

// ParameterMeta carries the human-readable description of a parameter.
type ParameterMeta struct {
	Description string `json:"description,omitempty"`
}

// Resource declares one resource's desired state.
type Resource struct {
	Type       string         `json:"type"`
	APIVersion string         `json:"apiVersion"`
	Name       string         `json:"name"`
	Location   string         `json:"location,omitempty"`
	Kind       string         `json:"kind,omitempty"`
	SKU        *SKU           `json:"sku,omitempty"`
	Identity   *Identity      `json:"identity,omitempty"`
	Scope      string         `json:"scope,omitempty"`
	DependsOn  []string       `json:"dependsOn,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// SKU names a pricing tier.
type SKU struct {
	Name string `json:"name"`
	Tier string `json:"tier,omitempty"`
}

// Identity declares a platform-managed identity on a resource.
type Identity struct {
	Type string `json:"type"`
}

// Output declares a value reported back after provisioning.
type Output struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Marshal renders the template as indented JSON. encoding/json emits
// struct fields in declaration order and map keys sorted, so two renders
// from identical parameters are byte-identical.
func (t *Template) Marshal() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Parse decodes a rendered template.
func Parse(data []byte) (*Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &t, nil
}
