package permission

import (
	"fmt"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/lumishop/shopadmin/internal/shared/logger"
)

// rbacModel grants a role an action on a resource. Either side of a policy may be "*",
// and g lets one role inherit another.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

type Enforcer struct {
	enforcer  *casbin.Enforcer
	persisted bool
	mu        sync.RWMutex
	logger    logger.Interface
}

// NewEnforcer stores policies in the casbin_rule table through the gorm adapter.
func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{
		enforcer:  enforcer,
		persisted: true,
		logger:    log,
	}, nil
}

// NewMemoryEnforcer keeps policies in process only.
func NewMemoryEnforcer(log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

func (e *Enforcer) Enforce(role string, resource string, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role, resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

func (e *Enforcer) AddPolicy(role string, resource string, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(role, resource, action); err != nil {
		e.logger.Errorw("failed to add policy", "error", err, "role", role)
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

func (e *Enforcer) RemovePolicy(role string, resource string, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(role, resource, action); err != nil {
		e.logger.Errorw("failed to remove policy", "error", err, "role", role)
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

// ReplacePolicies makes the stored rules equal to seed. Only the difference is written,
// each batch in its own adapter transaction, so a single-connection pool never waits on itself.
func (e *Enforcer) ReplacePolicies(seed *Seed) error {
	policies, groupings, err := seed.Rules()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	currentPolicies, err := e.enforcer.GetPolicy()
	if err != nil {
		return fmt.Errorf("failed to read policies: %w", err)
	}
	currentGroupings, err := e.enforcer.GetGroupingPolicy()
	if err != nil {
		return fmt.Errorf("failed to read role inheritance: %w", err)
	}

	stalePolicies, missingPolicies := diffRules(currentPolicies, policies)
	staleGroupings, missingGroupings := diffRules(currentGroupings, groupings)

	if len(staleGroupings) > 0 {
		if _, err := e.enforcer.RemoveGroupingPolicies(staleGroupings); err != nil {
			return fmt.Errorf("failed to remove role inheritance: %w", err)
		}
	}
	if len(stalePolicies) > 0 {
		if _, err := e.enforcer.RemovePolicies(stalePolicies); err != nil {
			return fmt.Errorf("failed to remove policies: %w", err)
		}
	}
	if len(missingPolicies) > 0 {
		if _, err := e.enforcer.AddPolicies(missingPolicies); err != nil {
			return fmt.Errorf("failed to add policies: %w", err)
		}
	}
	if len(missingGroupings) > 0 {
		if _, err := e.enforcer.AddGroupingPolicies(missingGroupings); err != nil {
			return fmt.Errorf("failed to add role inheritance: %w", err)
		}
	}

	e.logger.Infow("permission policies replaced",
		"policies", len(policies),
		"inherits", len(groupings),
		"added", len(missingPolicies)+len(missingGroupings),
		"removed", len(stalePolicies)+len(staleGroupings),
	)
	return nil
}

// diffRules returns the rules of current absent from want and the rules of want absent
// from current. Duplicates in want are collapsed.
func diffRules(current, want [][]string) (stale, missing [][]string) {
	wanted := make(map[string]struct{}, len(want))
	for _, r := range want {
		wanted[ruleKey(r)] = struct{}{}
	}
	have := make(map[string]struct{}, len(current))
	for _, r := range current {
		k := ruleKey(r)
		have[k] = struct{}{}
		if _, ok := wanted[k]; !ok {
			stale = append(stale, r)
		}
	}
	for _, r := range want {
		k := ruleKey(r)
		if _, ok := have[k]; ok {
			continue
		}
		have[k] = struct{}{}
		missing = append(missing, r)
	}
	return stale, missing
}

func ruleKey(rule []string) string {
	return strings.Join(rule, "\x00")
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.persisted {
		return nil
	}
	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Info("policy reloaded successfully")
	return nil
}
