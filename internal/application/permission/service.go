package permission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lumishop/shopadmin/internal/shared/authorization"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type Enforcer interface {
	Enforce(role string, resource string, action string) (bool, error)
}

// Reloader re-reads policies from their source of truth.
type Reloader interface {
	Reload() error
}

// Broadcaster tells other instances that policies were reloaded.
type Broadcaster interface {
	PublishReload(ctx context.Context, source string) error
}

// Service answers role based access questions for back office routes.
type Service struct {
	enforcer    Enforcer
	reloader    Reloader
	broadcaster Broadcaster
	instanceID  string
	logger      logger.Interface
}

func NewService(enforcer Enforcer, logger logger.Interface) *Service {
	return &Service{
		enforcer: enforcer,
		logger:   logger,
	}
}

// WithReloader enables Reload.
func (s *Service) WithReloader(r Reloader) *Service {
	s.reloader = r
	return s
}

func (s *Service) CheckPermission(ctx context.Context, role authorization.UserRole, resource, action string) (bool, error) {
	if !role.IsValid() {
		return false, nil
	}

	allowed, err := s.enforcer.Enforce(role.String(), resource, action)
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}

	if !allowed {
		s.logger.Debugw("permission denied", "role", role, "resource", resource, "action", action)
	}
	return allowed, nil
}

// Allowed filters perms ("resource:action") down to the ones role may use.
func (s *Service) Allowed(ctx context.Context, role authorization.UserRole, perms []string) ([]string, error) {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		resource, action, ok := strings.Cut(p, ":")
		if !ok || resource == "" || action == "" {
			continue
		}
		allowed, err := s.CheckPermission(ctx, role, resource, action)
		if err != nil {
			return nil, err
		}
		if allowed {
			out = append(out, p)
		}
	}
	return out, nil
}

// WithBroadcaster makes Reload announce itself under instanceID.
func (s *Service) WithBroadcaster(b Broadcaster, instanceID string) *Service {
	s.broadcaster = b
	s.instanceID = instanceID
	return s
}

// Reload replaces the loaded policies with the seed file. It fails when no reloader was wired.
func (s *Service) Reload(ctx context.Context) error {
	if s.reloader == nil {
		return errors.New("policy reload is not configured")
	}
	if err := s.reloader.Reload(); err != nil {
		s.logger.Errorw("failed to reload permission policies", "error", err)
		return fmt.Errorf("failed to reload policies: %w", err)
	}
	s.logger.Infow("permission policies reloaded")

	if s.broadcaster != nil {
		// The local reload already succeeded; peers catch up on their next reload.
		if err := s.broadcaster.PublishReload(ctx, s.instanceID); err != nil {
			s.logger.Warnw("failed to broadcast policy reload", "error", err)
		}
	}
	return nil
}

// HandleRemoteReload reloads policies after another instance announced a reload.
// Events from this instance are ignored.
func (s *Service) HandleRemoteReload(ctx context.Context, source string) {
	if s.reloader == nil || source == s.instanceID {
		return
	}
	if err := s.reloader.Reload(); err != nil {
		s.logger.Errorw("failed to apply remote policy reload", "source", source, "error", err)
		return
	}
	s.logger.Infow("permission policies reloaded from peer", "source", source)
}
