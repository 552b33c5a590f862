// Package order holds shop orders and their line items. Amounts are whole VND.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNoItems           = errors.New("order needs at least one item")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// Item is one order line. Product name and price are copied at order time.
type Item struct {
	ProductID   uint
	ProductName string
	Quantity    int
	UnitPrice   int64
}

func (i Item) LineTotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

func (i Item) validate() error {
	if strings.TrimSpace(i.ProductName) == "" {
		return fmt.Errorf("item product name is required")
	}
	if i.Quantity <= 0 {
		return fmt.Errorf("item %q quantity must be positive", i.ProductName)
	}
	if i.UnitPrice < 0 {
		return fmt.Errorf("item %q unit price cannot be negative", i.ProductName)
	}
	return nil
}

type Order struct {
	id            uint
	code          string
	customerName  string
	customerPhone string
	status        Status
	paymentMethod PaymentMethod
	items         []Item
	subtotal      int64
	discount      int64
	shippingFee   int64
	finalAmount   int64
	note          string
	completedAt   *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewOrderParams groups the inputs of NewOrder.
type NewOrderParams struct {
	Code          string
	CustomerName  string
	CustomerPhone string
	Status        Status
	PaymentMethod PaymentMethod
	Items         []Item
	Discount      int64
	ShippingFee   int64
	Note          string
}

// NewOrder validates the lines, derives the totals and, for orders created already
// completed (counter sales), stamps completedAt with now.
func NewOrder(p NewOrderParams, now time.Time) (*Order, error) {
	if p.Code == "" {
		return nil, errors.New("order code is required")
	}
	if strings.TrimSpace(p.CustomerName) == "" {
		return nil, errors.New("customer name is required")
	}
	if len(p.Items) == 0 {
		return nil, ErrNoItems
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}
	if p.Discount < 0 || p.ShippingFee < 0 {
		return nil, errors.New("discount and shipping fee cannot be negative")
	}

	var subtotal int64
	for _, item := range p.Items {
		if err := item.validate(); err != nil {
			return nil, err
		}
		subtotal += item.LineTotal()
	}
	if p.Discount > subtotal {
		return nil, errors.New("discount cannot exceed subtotal")
	}

	now = now.UTC()
	o := &Order{
		code:          p.Code,
		customerName:  strings.TrimSpace(p.CustomerName),
		customerPhone: strings.TrimSpace(p.CustomerPhone),
		status:        p.Status,
		paymentMethod: p.PaymentMethod,
		items:         append([]Item(nil), p.Items...),
		subtotal:      subtotal,
		discount:      p.Discount,
		shippingFee:   p.ShippingFee,
		finalAmount:   subtotal - p.Discount + p.ShippingFee,
		note:          p.Note,
		createdAt:     now,
		updatedAt:     now,
	}
	if p.Status == StatusCompleted {
		o.completedAt = &now
	}
	return o, nil
}

// ReconstructParams carries persisted state back into an Order.
type ReconstructParams struct {
	ID            uint
	Code          string
	CustomerName  string
	CustomerPhone string
	Status        Status
	PaymentMethod PaymentMethod
	Items         []Item
	Subtotal      int64
	Discount      int64
	ShippingFee   int64
	FinalAmount   int64
	Note          string
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func ReconstructOrder(p ReconstructParams) (*Order, error) {
	if p.ID == 0 {
		return nil, errors.New("order ID cannot be zero")
	}
	if p.Code == "" {
		return nil, errors.New("order code is required")
	}
	return &Order{
		id:            p.ID,
		code:          p.Code,
		customerName:  p.CustomerName,
		customerPhone: p.CustomerPhone,
		status:        p.Status,
		paymentMethod: p.PaymentMethod,
		items:         p.Items,
		subtotal:      p.Subtotal,
		discount:      p.Discount,
		shippingFee:   p.ShippingFee,
		finalAmount:   p.FinalAmount,
		note:          p.Note,
		completedAt:   p.CompletedAt,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}, nil
}

// ChangeStatus moves the order along the lifecycle. completedAt is set when the order
// becomes completed and cleared when it leaves that status.
func (o *Order) ChangeStatus(next Status, now time.Time) error {
	if !next.IsValid() {
		return fmt.Errorf("invalid status: %s", next)
	}
	if o.status == next {
		return nil
	}
	if !o.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.status, next)
	}

	now = now.UTC()
	o.status = next
	if next == StatusCompleted {
		o.completedAt = &now
	} else {
		o.completedAt = nil
	}
	o.updatedAt = now
	return nil
}

// TotalQuantity is the number of units across all lines.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.items {
		total += item.Quantity
	}
	return total
}

func (o *Order) SetID(id uint) error {
	if o.id != 0 {
		return errors.New("order ID is already set")
	}
	if id == 0 {
		return errors.New("order ID cannot be zero")
	}
	o.id = id
	return nil
}

func (o *Order) ID() uint                     { return o.id }
func (o *Order) Code() string                 { return o.code }
func (o *Order) CustomerName() string         { return o.customerName }
func (o *Order) CustomerPhone() string        { return o.customerPhone }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) Items() []Item                { return o.items }
func (o *Order) Subtotal() int64              { return o.subtotal }
func (o *Order) Discount() int64              { return o.discount }
func (o *Order) ShippingFee() int64           { return o.shippingFee }
func (o *Order) FinalAmount() int64           { return o.finalAmount }
func (o *Order) Note() string                 { return o.note }
func (o *Order) CompletedAt() *time.Time      { return o.completedAt }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
