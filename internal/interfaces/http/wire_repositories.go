package http

import (
	"gorm.io/gorm"

	"github.com/lumishop/shopadmin/internal/infrastructure/repository"
	shareddb "github.com/lumishop/shopadmin/internal/shared/db"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	userRepo  *repository.UserRepository
	tokenRepo *repository.APITokenRepository
	orderRepo *repository.OrderRepository
	txManager *shareddb.TransactionManager
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:  repository.NewUserRepository(db, log),
		tokenRepo: repository.NewAPITokenRepository(db, log),
		orderRepo: repository.NewOrderRepository(db, log),
		txManager: shareddb.NewTransactionManager(db),
	}
}
