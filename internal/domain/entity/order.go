package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LineItem is one product line of a purchase order. Items are stored as a
// JSON array inside the order and receipt rows, not as a child table.
type LineItem struct {
	Product  string          `json:"product"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price × quantity
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// SumItems returns the total quantity and the net amount of items
func SumItems(items []LineItem) (int, decimal.Decimal) {
	count := 0
	net := decimal.Zero
	for _, it := range items {
		count += it.Quantity
		net = net.Add(it.Subtotal())
	}
	return count, net
}

// Order represents a registered purchase order (orden de compra)
type Order struct {
	ID        uint                          `gorm:"primaryKey" json:"id"`
	Code      string                        `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Customer  string                        `gorm:"size:255;not null" json:"customer"`
	Address   string                        `gorm:"size:255;not null" json:"address"`
	Phone     string                        `gorm:"size:32;not null" json:"phone"`
	District  string                        `gorm:"size:120;not null" json:"district"`
	Region    string                        `gorm:"size:120;not null" json:"region"`
	Items     datatypes.JSONSlice[LineItem] `gorm:"column:items_json;not null" json:"items"`
	Net       decimal.Decimal               `gorm:"type:decimal(14,2);not null" json:"net"`
	CreatedAt time.Time                     `gorm:"index" json:"created_at"`
	OwnerID   *uint                         `gorm:"index" json:"owner_id,omitempty"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ItemCount returns the total number of units ordered
func (o *Order) ItemCount() int {
	count, _ := SumItems(o.Items)
	return count
}
