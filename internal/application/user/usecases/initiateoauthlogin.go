package usecases

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type InitiateOAuthLoginCommand struct {
	RedirectTo string
}

type InitiateOAuthLoginResult struct {
	AuthURL string
	State   string
}

type InitiateOAuthLoginUseCase struct {
	client     OAuthClient
	stateStore StateStore
	logger     logger.Interface
}

func NewInitiateOAuthLoginUseCase(client OAuthClient, stateStore StateStore, logger logger.Interface) *InitiateOAuthLoginUseCase {
	return &InitiateOAuthLoginUseCase{
		client:     client,
		stateStore: stateStore,
		logger:     logger,
	}
}

func (uc *InitiateOAuthLoginUseCase) Execute(ctx context.Context, cmd InitiateOAuthLoginCommand) (*InitiateOAuthLoginResult, error) {
	if uc.client == nil {
		return nil, errors.NewBadRequestError("google login is not configured")
	}

	state, err := generateState()
	if err != nil {
		uc.logger.Errorw("failed to generate state", "error", err)
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	authURL, codeVerifier := uc.client.AuthURL(state)

	if err := uc.stateStore.Set(ctx, state, OAuthState{
		CodeVerifier: codeVerifier,
		RedirectTo:   safeRedirect(cmd.RedirectTo),
	}); err != nil {
		uc.logger.Errorw("failed to store OAuth state", "error", err)
		return nil, fmt.Errorf("failed to store state: %w", err)
	}

	uc.logger.Debugw("OAuth login initiated", "provider", "google")

	return &InitiateOAuthLoginResult{AuthURL: authURL, State: state}, nil
}

// safeRedirect only keeps root-relative paths, so the callback cannot bounce to another host.
func safeRedirect(target string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.Contains(target, "\\") {
		return target
	}
	return ""
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
