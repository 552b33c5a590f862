package apitoken

import (
	"fmt"
	"sort"
	"strings"
)

// Permission is a "<resource>:<action>" grant carried by an API token.
type Permission string

const (
	PermissionAll          Permission = "*"
	PermissionOrdersRead   Permission = "orders:read"
	PermissionOrdersWrite  Permission = "orders:write"
	PermissionReportsRead  Permission = "reports:read"
	PermissionProductsRead Permission = "products:read"
)

// knownActions lists the actions each resource supports.
var knownActions = map[string][]string{
	"orders":   {"read", "write"},
	"reports":  {"read"},
	"products": {"read"},
}

func (p Permission) String() string {
	return string(p)
}

// Resource returns the part before the colon, or "" for the global wildcard.
func (p Permission) Resource() string {
	resource, _, _ := strings.Cut(string(p), ":")
	if p == PermissionAll {
		return ""
	}
	return resource
}

// IsKnown reports whether p is the global wildcard, a resource wildcard such as
// "orders:*", or one of the concrete grants.
func (p Permission) IsKnown() bool {
	if p == PermissionAll {
		return true
	}
	resource, action, ok := strings.Cut(string(p), ":")
	if !ok {
		return false
	}
	actions, exists := knownActions[resource]
	if !exists {
		return false
	}
	if action == "*" {
		return true
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// Grants reports whether holding p satisfies required.
func (p Permission) Grants(required Permission) bool {
	if p == PermissionAll || p == required {
		return true
	}
	resource, action, ok := strings.Cut(string(p), ":")
	if !ok || action != "*" {
		return false
	}
	return required.Resource() == resource
}

// ParsePermission trims and lower-cases s and rejects unknown grants.
func ParsePermission(s string) (Permission, error) {
	p := Permission(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsKnown() {
		return "", fmt.Errorf("unknown permission: %q", s)
	}
	return p, nil
}

// Permissions is the set of grants held by one token.
type Permissions []Permission

// ParsePermissions validates every entry, drops duplicates and sorts the result.
func ParsePermissions(values []string) (Permissions, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("at least one permission is required")
	}

	seen := make(map[Permission]struct{}, len(values))
	out := make(Permissions, 0, len(values))
	for _, v := range values {
		p, err := ParsePermission(v)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Allows reports whether any grant in the set satisfies required.
func (ps Permissions) Allows(required Permission) bool {
	for _, p := range ps {
		if p.Grants(required) {
			return true
		}
	}
	return false
}

func (ps Permissions) Strings() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

// KnownPermissions lists every concrete grant plus the global wildcard, for help output.
func KnownPermissions() []Permission {
	return []Permission{
		PermissionOrdersRead,
		PermissionOrdersWrite,
		PermissionReportsRead,
		PermissionProductsRead,
		PermissionAll,
	}
}
