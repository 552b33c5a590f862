package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/lumishop/shopadmin/internal/application/order/dto"
	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

type UpdateOrderStatusCommand struct {
	Code   string
	Status string
}

type UpdateOrderStatusUseCase struct {
	orderRepo order.Repository
	txManager TransactionManager
	now       func() time.Time
	logger    logger.Interface
}

func NewUpdateOrderStatusUseCase(orderRepo order.Repository, txManager TransactionManager, logger logger.Interface) *UpdateOrderStatusUseCase {
	return &UpdateOrderStatusUseCase{
		orderRepo: orderRepo,
		txManager: txManager,
		now:       biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *UpdateOrderStatusUseCase) Execute(ctx context.Context, cmd UpdateOrderStatusCommand) (*dto.OrderDTO, error) {
	next, err := order.ParseStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewFieldValidationError("Validation failed", map[string]string{"status": err.Error()})
	}

	var updated *order.Order
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.GetByCode(txCtx, cmd.Code)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}
		if o == nil {
			return errors.NewNotFoundError("order not found", cmd.Code)
		}

		previous := o.Status()
		if err := o.ChangeStatus(next, uc.now()); err != nil {
			if stderrors.Is(err, order.ErrInvalidTransition) {
				return errors.NewConflictError("status transition not allowed",
					fmt.Sprintf("%s -> %s", previous, next))
			}
			return err
		}

		if err := uc.orderRepo.UpdateStatus(txCtx, o); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		uc.logger.Infow("order status changed",
			"order_code", o.Code(),
			"from", previous,
			"to", next,
		)
		updated = o
		return nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to update order status", "error", err, "order_code", cmd.Code)
		}
		return nil, err
	}

	return dto.ToOrderDTO(updated), nil
}
