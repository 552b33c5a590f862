package mappers

import (
	"fmt"

	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/infrastructure/persistence/models"
	"github.com/lumishop/shopadmin/internal/shared/authorization"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) (*models.UserModel, error)
}

type userMapper struct{}

func NewUserMapper() UserMapper {
	return &userMapper{}
}

func (m *userMapper) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	status := user.Status(model.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid user status %q for user %d", model.Status, model.ID)
	}

	entity, err := user.ReconstructUser(
		model.ID,
		model.Email,
		model.Name,
		authorization.ParseUserRole(model.Role),
		status,
		model.PasswordHash,
		model.LastLoginAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user entity: %w", err)
	}
	return entity, nil
}

func (m *userMapper) ToModel(entity *user.User) (*models.UserModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.UserModel{
		ID:           entity.ID(),
		Email:        entity.Email(),
		Name:         entity.Name(),
		Role:         entity.Role().String(),
		Status:       string(entity.Status()),
		PasswordHash: entity.PasswordHash(),
		LastLoginAt:  entity.LastLoginAt(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}, nil
}
