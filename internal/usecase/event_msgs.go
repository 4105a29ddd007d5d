package usecase

import "github.com/shopspring/decimal"

// OrderNotification is the value snapshot published under order.created.
// Consumed by the email service; it stays self-contained even if the order
// row is later touched.
type OrderNotification struct {
	OrderNumber   int                `json:"order_number"`
	UserEmail     string             `json:"user_email"`
	UserName      string             `json:"user_name"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
	Items         []NotificationItem `json:"items"`
}

type NotificationItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}
