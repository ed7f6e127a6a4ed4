package domain

// Parameters are the inputs of the infrastructure template.
type Parameters struct {
	// AppName seeds every resource name in the template.
	AppName string `yaml:"appName"`
	// Location of all resources. Empty means the resource group location.
	Location string `yaml:"location,omitempty"`
	// SKU is the hosting plan pricing tier.
	SKU string `yaml:"sku,omitempty"`
	// ImageTag is the container image the web app runs, e.g. "app:v3".
	ImageTag string `yaml:"imageTag"`
	// RepoURL and Branch bind the web app to a git repository for
	// manual-integration deployment.
	RepoURL string `yaml:"repoUrl,omitempty"`
	Branch  string `yaml:"branch,omitempty"`
}

// DefaultSKU is the hosting plan tier used when none is given.
const DefaultSKU = "B1"

// Built-in role definition ids granted to the web app's managed identity.
const (
	RoleAcrPull                     = "7f951dda-4ed3-4680-a7ca-43fe172d538d"
	RoleStorageBlobDataContributor  = "ba92f5b4-2d11-453d-a403-e96b0029c9fe"
	RoleStorageQueueDataContributor = "974c5e8b-45b9-4653-ba55-5f855dd0fb88"
)

// KnownRoles is the set of role definitions the template may reference.
var KnownRoles = map[string]string{
	RoleAcrPull:                     "AcrPull",
	RoleStorageBlobDataContributor:  "Storage Blob Data Contributor",
	RoleStorageQueueDataContributor: "Storage Queue Data Contributor",
}

// Outputs are the values the template reports back after provisioning.
type Outputs struct {
	RegistryName string
	Hostname     string
}
