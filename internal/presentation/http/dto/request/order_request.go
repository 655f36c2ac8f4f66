package request

import "github.com/shopspring/decimal"

// OrderItemRequest is one line of a submitted order. Prices and
// quantities may be sent as JSON numbers or strings.
type OrderItemRequest struct {
	Product  string          `json:"product"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SubmitOrderRequest represents a purchase order submission. Field rules
// are enforced by the order service so every problem is reported at once.
type SubmitOrderRequest struct {
	Code     string             `json:"code"`
	Customer string             `json:"customer"`
	Address  string             `json:"address"`
	Phone    string             `json:"phone"`
	District string             `json:"district"`
	Region   string             `json:"region"`
	Items    []OrderItemRequest `json:"items"`
}
