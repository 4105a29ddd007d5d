package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "pending"
)

const DefaultPaymentMethod = "cash_on_delivery"

var (
	ErrNoItems         = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

type Order struct {
	ID              int64
	UserID          string
	OrderNumber     int
	Status          Status
	TotalAmount     decimal.Decimal
	PaymentMethod   string
	ShippingAddress string
	CreatedAt       time.Time
	Items           []OrderItem
}

// OrderItem belongs to exactly one Order; it never outlives or moves to another.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	sum := decimal.Zero
	for _, it := range o.Items {
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
		sum = sum.Add(it.LineTotal)
	}
	if !o.TotalAmount.Equal(sum) {
		return errors.New("total amount does not match item totals")
	}
	return nil
}
