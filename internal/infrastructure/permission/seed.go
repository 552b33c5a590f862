package permission

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Seed is the on-disk role definition, e.g.
//
//	roles:
//	  staff:
//	    permissions: [orders:read, reports:read]
//	  admin:
//	    inherits: [staff]
//	    permissions: ["*:*"]
type Seed struct {
	Roles map[string]RoleSeed `yaml:"roles"`
}

type RoleSeed struct {
	Inherits    []string `yaml:"inherits"`
	Permissions []string `yaml:"permissions"`
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read permission seed: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse permission seed: %w", err)
	}
	if len(seed.Roles) == 0 {
		return nil, fmt.Errorf("permission seed defines no roles")
	}
	return &seed, nil
}

// Rules flattens the seed into casbin p and g rules, in role name order.
func (s *Seed) Rules() (policies [][]string, groupings [][]string, err error) {
	names := make([]string, 0, len(s.Roles))
	for name := range s.Roles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, role := range names {
		def := s.Roles[role]
		for _, perm := range def.Permissions {
			resource, action, err := splitPermission(perm)
			if err != nil {
				return nil, nil, fmt.Errorf("role %s: %w", role, err)
			}
			policies = append(policies, []string{role, resource, action})
		}
		for _, parent := range def.Inherits {
			if _, ok := s.Roles[parent]; !ok {
				return nil, nil, fmt.Errorf("role %s inherits unknown role %s", role, parent)
			}
			groupings = append(groupings, []string{role, parent})
		}
	}
	return policies, groupings, nil
}

// splitPermission accepts "resource:action", "resource" (all actions) and "*".
func splitPermission(perm string) (string, string, error) {
	perm = strings.TrimSpace(perm)
	if perm == "" {
		return "", "", fmt.Errorf("empty permission")
	}
	if perm == "*" {
		return "*", "*", nil
	}
	resource, action, found := strings.Cut(perm, ":")
	if !found {
		return resource, "*", nil
	}
	if resource == "" || action == "" {
		return "", "", fmt.Errorf("malformed permission %q", perm)
	}
	return resource, action, nil
}

// FileReloader replaces an enforcer's policies with the contents of a seed file.
type FileReloader struct {
	Enforcer *Enforcer
	Path     string
}

func (r FileReloader) Reload() error {
	seed, err := LoadSeed(r.Path)
	if err != nil {
		return err
	}
	return r.Enforcer.ReplacePolicies(seed)
}
