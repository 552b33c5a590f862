package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/application/user/dto"
	"github.com/lumishop/shopadmin/internal/application/user/usecases"
	"github.com/lumishop/shopadmin/internal/domain/user"
	"github.com/lumishop/shopadmin/internal/shared/authorization"
	"github.com/lumishop/shopadmin/internal/shared/logger"
	"github.com/lumishop/shopadmin/internal/shared/utils"
)

type createUserUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateUserCommand) (*user.User, error)
}

// UserHandler handles back office account management.
type UserHandler struct {
	createUC createUserUseCase
	logger   logger.Interface
}

func NewUserHandler(createUC createUserUseCase, log logger.Interface) *UserHandler {
	return &UserHandler{
		createUC: createUC,
		logger:   log,
	}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,max=100,nohtml"`
	Role     string `json:"role" binding:"required,oneof=admin staff customer"`
	Password string `json:"password" binding:"omitempty,min=8,max=128"`
}

// CreateUser handles POST /api/admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create user", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	created, err := h.createUC.Execute(c.Request.Context(), usecases.CreateUserCommand{
		Email:    req.Email,
		Name:     req.Name,
		Role:     authorization.UserRole(req.Role),
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto.ToUserDTO(created), "User created successfully")
}
