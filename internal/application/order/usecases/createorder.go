package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/lumishop/shopadmin/internal/application/order/dto"
	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/id"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

// codeAttempts bounds retries when a generated order code collides.
const codeAttempts = 3

type CreateOrderItem struct {
	ProductID   uint
	ProductName string
	Quantity    int
	UnitPrice   int64
}

// CreateOrderCommand carries request text that the HTTP sanitizer has already cleaned.
type CreateOrderCommand struct {
	CustomerName  string
	CustomerPhone string
	// Status accepts canonical values and legacy spellings such as "Hoàn thành". Empty means pending.
	Status string
	// PaymentMethod defaults to cash on delivery when empty.
	PaymentMethod string
	Items         []CreateOrderItem
	Discount      int64
	ShippingFee   int64
	Note          string
}

type CreateOrderUseCase struct {
	orderRepo order.Repository
	now       func() time.Time
	newCode   func(bizDate time.Time) (string, error)
	logger    logger.Interface
}

func NewCreateOrderUseCase(orderRepo order.Repository, logger logger.Interface) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo: orderRepo,
		now:       biztime.NowUTC,
		newCode:   id.NewOrderCode,
		logger:    logger,
	}
}

func (uc *CreateOrderUseCase) Execute(ctx context.Context, cmd CreateOrderCommand) (*dto.OrderDTO, error) {
	status := order.StatusPending
	if cmd.Status != "" {
		parsed, err := order.ParseStatus(cmd.Status)
		if err != nil {
			return nil, errors.NewFieldValidationError("Validation failed", map[string]string{"status": err.Error()})
		}
		status = parsed
	}

	method := order.PaymentCOD
	if cmd.PaymentMethod != "" {
		parsed, err := order.ParsePaymentMethod(cmd.PaymentMethod)
		if err != nil {
			return nil, errors.NewFieldValidationError("Validation failed", map[string]string{"payment_method": err.Error()})
		}
		method = parsed
	}

	items := make([]order.Item, 0, len(cmd.Items))
	for _, it := range cmd.Items {
		items = append(items, order.Item{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	now := uc.now()
	for attempt := 1; ; attempt++ {
		code, err := uc.newCode(biztime.ToBizTimezone(now))
		if err != nil {
			return nil, fmt.Errorf("failed to generate order code: %w", err)
		}

		o, err := order.NewOrder(order.NewOrderParams{
			Code:          code,
			CustomerName:  cmd.CustomerName,
			CustomerPhone: cmd.CustomerPhone,
			Status:        status,
			PaymentMethod: method,
			Items:         items,
			Discount:      cmd.Discount,
			ShippingFee:   cmd.ShippingFee,
			Note:          cmd.Note,
		}, now)
		if err != nil {
			return nil, errors.NewValidationError("invalid order", err.Error())
		}

		err = uc.orderRepo.Create(ctx, o)
		if err == nil {
			uc.logger.Infow("order created",
				"order_code", o.Code(),
				"status", o.Status(),
				"final_amount", o.FinalAmount(),
			)
			return dto.ToOrderDTO(o), nil
		}

		if !errors.IsDuplicateError(err) || attempt >= codeAttempts {
			uc.logger.Errorw("failed to create order", "error", err, "order_code", code)
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		uc.logger.Warnw("order code collision, retrying", "order_code", code, "attempt", attempt)
	}
}
