package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/nishantchy/ecom-microservice/internal/entity"
	"github.com/nishantchy/ecom-microservice/internal/logging"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// priceFanout bounds concurrent catalog lookups per order.
const priceFanout = 4

type CreateOrderInput struct {
	Token         string
	Items         []LineItemRequest
	PaymentMethod string
}

type CreateOrder struct {
	verifier  IdentityVerifier
	catalog   PriceCatalog
	repo      OrderRepo
	publisher EventPublisher
}

func NewCreateOrder(verifier IdentityVerifier, catalog PriceCatalog, repo OrderRepo, publisher EventPublisher) *CreateOrder {
	return &CreateOrder{verifier: verifier, catalog: catalog, repo: repo, publisher: publisher}
}

// Execute runs the pipeline: verify -> resolve prices -> assemble -> commit -> publish.
// Admission has already happened at the HTTP layer. Identity precedes pricing
// so unauthenticated callers never trigger catalog calls; commit precedes
// publish so an order is never announced before it is durable.
func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	l := logging.FromCtx(ctx)

	if in.Token == "" {
		return nil, ErrUnauthenticated
	}
	principal, err := uc.verifier.Verify(ctx, in.Token)
	if err != nil {
		l.Info("auth rejected")
		return nil, ErrUnauthenticated
	}
	l = l.With("user_id", principal.UserID)

	items, err := uc.resolvePrices(ctx, in.Items)
	if err != nil {
		l.Warn("price resolution failed", "error", err)
		return nil, err
	}
	l.Info("prices resolved", "item_count", len(items))

	order := assembleOrder(principal, items, in.PaymentMethod)
	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, &order); err != nil {
		l.Error("order commit failed", "error", err)
		return nil, fmt.Errorf("commit order: %w", err)
	}
	l.Info("order committed", "order_id", order.ID, "order_number", order.OrderNumber)

	// Post-commit: a publish failure is reported, never rolled back into the
	// caller's outcome.
	if err := uc.publisher.Publish(ctx, notificationFor(order, principal)); err != nil {
		l.Error("order.created publish failed", "order_id", order.ID, "error", err)
	} else {
		l.Info("order.created published", "order_id", order.ID)
	}

	return &order, nil
}

// resolvePrices fans out catalog lookups with a bounded group and fails fast:
// the group context cancels outstanding lookups on the first error, and no
// partial result ever reaches assembly. The slice is index-addressed so the
// total is deterministic regardless of completion order.
func (uc *CreateOrder) resolvePrices(ctx context.Context, reqs []LineItemRequest) ([]entity.OrderItem, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(priceFanout)

	resolved := make([]entity.OrderItem, len(reqs))
	for i, req := range reqs {
		g.Go(func() error {
			price, err := uc.catalog.UnitPrice(ctx, req.ProductID)
			if err != nil {
				var pe *PriceError
				if errors.As(err, &pe) {
					return err
				}
				return &PriceError{ProductID: req.ProductID, Err: err}
			}
			resolved[i] = entity.OrderItem{
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				UnitPrice: price,
				LineTotal: price.Mul(decimal.NewFromInt(int64(req.Quantity))),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func notificationFor(o entity.Order, p entity.Principal) OrderNotification {
	items := make([]NotificationItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, NotificationItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return OrderNotification{
		OrderNumber:   o.OrderNumber,
		UserEmail:     p.Email,
		UserName:      p.DisplayName(),
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod,
		Items:         items,
	}
}
