package arm

import (
	"fmt"
	"strings"

	"github.com/jusmoore/shipyard/internal/core/domain"
)

// Validate checks a template against the properties the provisioning
// engine cannot be relied on to report early: a well-formed dependency
// graph, role assignments referencing real built-in roles, and outputs
// that are present and non-empty.
func Validate(t *Template) error {
	if t.Schema == "" {
		return fmt.Errorf("%w: missing $schema", domain.ErrInvalidTemplate)
	}
	if t.ContentVersion == "" {
		return fmt.Errorf("%w: missing contentVersion", domain.ErrInvalidTemplate)
	}
	if len(t.Resources) == 0 {
		return fmt.Errorf("%w: no resources declared", domain.ErrInvalidTemplate)
	}

	declared := make(map[string]int, len(t.Resources))
	for i, r := range t.Resources {
		if r.Type == "" || r.Name == "" || r.APIVersion == "" {
			return fmt.Errorf("%w: resource %d is missing type, name or apiVersion", domain.ErrInvalidTemplate, i)
		}
		declared[resourceKey(r.Type, r.Name)] = i
	}

	if err := checkDependencies(t, declared); err != nil {
		return err
	}
	if err := checkRoleAssignments(t); err != nil {
		return err
	}

	for name, out := range t.Outputs {
		if out.Value == "" {
			return fmt.Errorf("%w: output %q is empty", domain.ErrInvalidTemplate, name)
		}
	}
	for _, name := range []string{"registryName", "hostname"} {
		if _, ok := t.Outputs[name]; !ok {
			return fmt.Errorf("%w: output %q not declared", domain.ErrInvalidTemplate, name)
		}
	}
	return nil
}

// checkDependencies verifies every dependsOn edge resolves to a declared
// resource and that the resulting graph has no cycles, since the engine
// applies resources in dependency order.
func checkDependencies(t *Template, declared map[string]int) error {
	edges := make(map[int][]int, len(t.Resources))
	for i, r := range t.Resources {
		for _, dep := range r.DependsOn {
			resType, names, ok := parseResourceID(dep)
			if !ok {
				return fmt.Errorf("%w: resource %q has unresolvable dependency %q", domain.ErrInvalidTemplate, r.Name, dep)
			}
			target, ok := declared[resourceKey(resType, strings.Join(names, "/"))]
			if !ok {
				return fmt.Errorf("%w: resource %q depends on undeclared %s %q", domain.ErrInvalidTemplate, r.Name, resType, strings.Join(names, "/"))
			}
			edges[i] = append(edges[i], target)
		}
	}

	// Cycle detection via depth-first search, three-color.
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make([]int, len(t.Resources))
	var visit func(int) bool
	visit = func(n int) bool {
		color[n] = grey
		for _, m := range edges[n] {
			switch color[m] {
			case grey:
				return false
			case white:
				if !visit(m) {
					return false
				}
			}
		}
		color[n] = black
		return true
	}
	for i := range t.Resources {
		if color[i] == white && !visit(i) {
			return fmt.Errorf("%w: dependency cycle involving %q", domain.ErrInvalidTemplate, t.Resources[i].Name)
		}
	}
	return nil
}

// checkRoleAssignments verifies each assignment names a known built-in
// role definition and a principal.
func checkRoleAssignments(t *Template) error {
	for _, r := range t.Resources {
		if r.Type != TypeRoleAssignment {
			continue
		}
		rawID, _ := r.Properties["roleDefinitionId"].(string)
		roleID, ok := parseRoleDefinitionID(rawID)
		if !ok {
			return fmt.Errorf("%w: role assignment %q has malformed roleDefinitionId %q", domain.ErrInvalidTemplate, r.Name, rawID)
		}
		if _, known := domain.KnownRoles[roleID]; !known {
			return fmt.Errorf("%w: role assignment %q references unknown role definition %s", domain.ErrInvalidTemplate, r.Name, roleID)
		}
		if principal, _ := r.Properties["principalId"].(string); principal == "" {
			return fmt.Errorf("%w: role assignment %q has no principalId", domain.ErrInvalidTemplate, r.Name)
		}
		if r.Scope == "" {
			return fmt.Errorf("%w: role assignment %q has no scope", domain.ErrInvalidTemplate, r.Name)
		}
	}
	return nil
}

func resourceKey(resType, name string) string {
	return strings.ToLower(resType) + "|" + strings.ToLower(name)
}
