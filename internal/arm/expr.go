package arm

import (
	"fmt"
	"regexp"
	"strings"
)

// Helpers for the small set of template expressions the renderer emits
// and the validator resolves.

// resourceID builds a "[resourceId(...)]" expression from a resource type
// and its name segments.
func resourceID(resType string, names ...string) string {
	quoted := make([]string, 0, len(names)+1)
	quoted = append(quoted, fmt.Sprintf("'%s'", resType))
	for _, n := range names {
		quoted = append(quoted, fmt.Sprintf("'%s'", n))
	}
	return fmt.Sprintf("[resourceId(%s)]", strings.Join(quoted, ", "))
}

// roleDefinitionID builds the subscription-scoped id of a built-in role.
func roleDefinitionID(roleID string) string {
	return fmt.Sprintf("[subscriptionResourceId('Microsoft.Authorization/roleDefinitions', '%s')]", roleID)
}

// principalReference resolves the managed identity principal of a site.
func principalReference(siteName string) string {
	return fmt.Sprintf("[reference(resourceId('Microsoft.Web/sites', '%s'), '%s', 'full').identity.principalId]", siteName, apiSites)
}

// assignmentGUID derives a stable name for a role assignment from its
// scope and role, the way hand-written templates do with guid().
func assignmentGUID(scopeType, scopeName, roleID string) string {
	return fmt.Sprintf("[guid(resourceId('%s', '%s'), '%s')]", scopeType, scopeName, roleID)
}

// resourceGroupLocation defers a location to the enclosing group.
const resourceGroupLocation = "[resourceGroup().location]"

var resourceIDPattern = regexp.MustCompile(`^\[resourceId\(([^)]*)\)\]$`)

// parseResourceID inverts resourceID. It returns the resource type and
// name segments, or ok=false for expressions of any other shape.
func parseResourceID(expr string) (resType string, names []string, ok bool) {
	m := resourceIDPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return "", nil, false
	}
	parts := strings.Split(m[1], ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !strings.HasPrefix(p, "'") || !strings.HasSuffix(p, "'") || len(p) < 2 {
			return "", nil, false
		}
		p = p[1 : len(p)-1]
		if resType == "" {
			resType = p
		} else {
			names = append(names, p)
		}
	}
	if resType == "" || len(names) == 0 {
		return "", nil, false
	}
	return resType, names, true
}

var roleDefPattern = regexp.MustCompile(`roleDefinitions',\s*'([0-9a-fA-F-]{36})'`)

// parseRoleDefinitionID extracts the role definition UUID from a
// subscriptionResourceId expression.
func parseRoleDefinitionID(expr string) (string, bool) {
	m := roleDefPattern.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}
