package dto

import (
	"time"

	"github.com/lumishop/shopadmin/internal/domain/apitoken"
)

// APITokenDTO is the listing view of a token. The plaintext value is never included.
type APITokenDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Prefix      string     `json:"prefix"`
	Permissions []string   `json:"permissions"`
	RateLimit   int        `json:"rate_limit"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// IssuedTokenDTO is returned once, right after issuance.
type IssuedTokenDTO struct {
	APITokenDTO
	Token string `json:"token"`
}

func ToAPITokenDTO(t *apitoken.APIToken) *APITokenDTO {
	if t == nil {
		return nil
	}
	return &APITokenDTO{
		ID:          t.SID(),
		Name:        t.Name(),
		Prefix:      t.Prefix() + "…",
		Permissions: t.Permissions().Strings(),
		RateLimit:   t.RateLimit(),
		ExpiresAt:   t.ExpiresAt(),
		LastUsedAt:  t.LastUsedAt(),
		IsActive:    t.IsActive(),
		CreatedAt:   t.CreatedAt(),
		RevokedAt:   t.RevokedAt(),
	}
}

func ToAPITokenDTOList(tokens []*apitoken.APIToken) []*APITokenDTO {
	result := make([]*APITokenDTO, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, ToAPITokenDTO(t))
	}
	return result
}
