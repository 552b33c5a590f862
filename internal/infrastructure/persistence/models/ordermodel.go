package models

import (
	"time"

	"github.com/lumishop/shopadmin/internal/shared/constants"
)

// OrderModel is an order row. Money columns hold whole VND.
type OrderModel struct {
	ID            uint       `gorm:"primarykey"`
	Code          string     `gorm:"uniqueIndex;not null;size:32"`
	CustomerName  string     `gorm:"not null;size:150"`
	CustomerPhone string     `gorm:"size:20"`
	Status        string     `gorm:"not null;size:20;index:idx_orders_status_completed,priority:1"`
	PaymentMethod string     `gorm:"not null;size:20"`
	Subtotal      int64      `gorm:"not null;default:0"`
	Discount      int64      `gorm:"not null;default:0"`
	ShippingFee   int64      `gorm:"not null;default:0"`
	FinalAmount   int64      `gorm:"not null;default:0"`
	Note          string     `gorm:"size:1000"`
	CompletedAt   *time.Time `gorm:"index:idx_orders_status_completed,priority:2"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderModel) TableName() string {
	return constants.TableOrders
}

type OrderItemModel struct {
	ID          uint   `gorm:"primarykey"`
	OrderID     uint   `gorm:"not null;index"`
	ProductID   uint   `gorm:"not null;default:0"`
	ProductName string `gorm:"not null;size:200"`
	Quantity    int    `gorm:"not null"`
	UnitPrice   int64  `gorm:"not null"`
}

func (OrderItemModel) TableName() string {
	return constants.TableOrderItems
}

// All lists every model owned by the schema, in creation order.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&APITokenModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
