package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/lumishop/shopadmin/internal/domain/apitoken"
	"github.com/lumishop/shopadmin/internal/infrastructure/persistence/models"
)

// APITokenMapper handles the conversion between domain entities and persistence models
type APITokenMapper interface {
	ToEntity(model *models.APITokenModel) (*apitoken.APIToken, error)
	ToModel(entity *apitoken.APIToken) (*models.APITokenModel, error)
	ToEntities(models []*models.APITokenModel) ([]*apitoken.APIToken, error)
}

type apiTokenMapper struct{}

func NewAPITokenMapper() APITokenMapper {
	return &apiTokenMapper{}
}

func (m *apiTokenMapper) ToEntity(model *models.APITokenModel) (*apitoken.APIToken, error) {
	if model == nil {
		return nil, nil
	}

	var raw []string
	if len(model.Permissions) > 0 {
		if err := json.Unmarshal(model.Permissions, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode permissions of token %d: %w", model.ID, err)
		}
	}
	permissions, err := apitoken.ParsePermissions(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid permissions on token %d: %w", model.ID, err)
	}

	entity, err := apitoken.ReconstructAPIToken(
		model.ID,
		model.SID,
		model.UserID,
		model.Name,
		model.TokenHash,
		model.Prefix,
		permissions,
		model.RateLimit,
		model.ExpiresAt,
		model.LastUsedAt,
		model.IsActive,
		model.CreatedAt,
		model.RevokedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct api token entity: %w", err)
	}
	return entity, nil
}

func (m *apiTokenMapper) ToModel(entity *apitoken.APIToken) (*models.APITokenModel, error) {
	if entity == nil {
		return nil, nil
	}

	permissions, err := json.Marshal(entity.Permissions().Strings())
	if err != nil {
		return nil, fmt.Errorf("failed to encode permissions: %w", err)
	}

	return &models.APITokenModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		UserID:      entity.UserID(),
		Name:        entity.Name(),
		TokenHash:   entity.TokenHash(),
		Prefix:      entity.Prefix(),
		Permissions: datatypes.JSON(permissions),
		RateLimit:   entity.RateLimit(),
		ExpiresAt:   entity.ExpiresAt(),
		LastUsedAt:  entity.LastUsedAt(),
		IsActive:    entity.IsActive(),
		CreatedAt:   entity.CreatedAt(),
		RevokedAt:   entity.RevokedAt(),
	}, nil
}

func (m *apiTokenMapper) ToEntities(tokenModels []*models.APITokenModel) ([]*apitoken.APIToken, error) {
	entities := make([]*apitoken.APIToken, 0, len(tokenModels))
	for _, model := range tokenModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
