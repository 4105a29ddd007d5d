package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/nishantchy/ecom-microservice/internal/entity"
	"github.com/shopspring/decimal"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("order not found")
)

// PriceError marks a failed or malformed catalog lookup. Product ids are not
// sensitive, so the offending id is carried for debuggability.
type PriceError struct {
	ProductID int64
	Err       error
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("price lookup for product %d: %v", e.ProductID, e.Err)
}

func (e *PriceError) Unwrap() error { return e.Err }

// LineItemRequest is the caller-supplied item shape, unvalidated for price.
type LineItemRequest struct {
	ProductID int64
	Quantity  int
}

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (entity.Principal, error)
}

type PriceCatalog interface {
	UnitPrice(ctx context.Context, productID int64) (decimal.Decimal, error)
}

type OrderRepo interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	ListAll(ctx context.Context) ([]entity.Order, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, n OrderNotification) error
}

// RateAdmitter gates entry to the pipeline. The counter lives in a store
// shared by every process instance; the increment happens even when the
// call is then denied.
type RateAdmitter interface {
	Admit(ctx context.Context, scopeKey string) (remaining int, ok bool, err error)
}
