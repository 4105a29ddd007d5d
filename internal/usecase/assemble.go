package usecase

import (
	"math/rand/v2"
	"strings"

	"github.com/nishantchy/ecom-microservice/internal/entity"
	"github.com/shopspring/decimal"
)

// assembleOrder combines the verified principal and the resolved items into a
// persistable draft. Pure; no I/O happens here.
func assembleOrder(p entity.Principal, items []entity.OrderItem, paymentMethod string) entity.Order {
	if paymentMethod == "" {
		paymentMethod = entity.DefaultPaymentMethod
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}

	return entity.Order{
		UserID:          p.UserID,
		OrderNumber:     newOrderNumber(),
		Status:          entity.StatusPending,
		TotalAmount:     total,
		PaymentMethod:   paymentMethod,
		ShippingAddress: shippingAddress(p),
		Items:           items,
	}
}

// shippingAddress joins the non-empty address components in fixed order.
// Missing components are skipped, never placeholdered.
func shippingAddress(p entity.Principal) string {
	parts := make([]string, 0, 5)
	for _, s := range []string{p.Street, p.City, p.Province, p.PostalCode, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// newOrderNumber draws a uniform 6-digit caller-facing number. Collisions are
// possible and not checked here; see DESIGN.md.
func newOrderNumber() int {
	return 100000 + rand.IntN(900000)
}
