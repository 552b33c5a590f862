package mappers

import (
	"fmt"

	"github.com/lumishop/shopadmin/internal/domain/order"
	"github.com/lumishop/shopadmin/internal/infrastructure/persistence/models"
)

// OrderMapper converts orders with their items.
type OrderMapper interface {
	ToEntity(model *models.OrderModel) (*order.Order, error)
	ToModel(entity *order.Order) *models.OrderModel
	ToEntities(models []*models.OrderModel) ([]*order.Order, error)
}

type orderMapper struct{}

func NewOrderMapper() OrderMapper {
	return &orderMapper{}
}

// ToEntity normalizes the stored status, so rows written with legacy spellings read back canonical.
func (m *orderMapper) ToEntity(model *models.OrderModel) (*order.Order, error) {
	if model == nil {
		return nil, nil
	}

	status, err := order.ParseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", model.Code, err)
	}
	payment, err := order.ParsePaymentMethod(model.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", model.Code, err)
	}

	items := make([]order.Item, 0, len(model.Items))
	for _, it := range model.Items {
		items = append(items, order.Item{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	entity, err := order.ReconstructOrder(order.ReconstructParams{
		ID:            model.ID,
		Code:          model.Code,
		CustomerName:  model.CustomerName,
		CustomerPhone: model.CustomerPhone,
		Status:        status,
		PaymentMethod: payment,
		Items:         items,
		Subtotal:      model.Subtotal,
		Discount:      model.Discount,
		ShippingFee:   model.ShippingFee,
		FinalAmount:   model.FinalAmount,
		Note:          model.Note,
		CompletedAt:   model.CompletedAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct order entity: %w", err)
	}
	return entity, nil
}

func (m *orderMapper) ToModel(entity *order.Order) *models.OrderModel {
	if entity == nil {
		return nil
	}

	items := make([]models.OrderItemModel, 0, len(entity.Items()))
	for _, it := range entity.Items() {
		items = append(items, models.OrderItemModel{
			OrderID:     entity.ID(),
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}

	return &models.OrderModel{
		ID:            entity.ID(),
		Code:          entity.Code(),
		CustomerName:  entity.CustomerName(),
		CustomerPhone: entity.CustomerPhone(),
		Status:        entity.Status().String(),
		PaymentMethod: string(entity.PaymentMethod()),
		Subtotal:      entity.Subtotal(),
		Discount:      entity.Discount(),
		ShippingFee:   entity.ShippingFee(),
		FinalAmount:   entity.FinalAmount(),
		Note:          entity.Note(),
		CompletedAt:   entity.CompletedAt(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
		Items:         items,
	}
}

func (m *orderMapper) ToEntities(orderModels []*models.OrderModel) ([]*order.Order, error) {
	entities := make([]*order.Order, 0, len(orderModels))
	for _, model := range orderModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
