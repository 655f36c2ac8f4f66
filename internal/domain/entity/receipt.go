package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Receipt is the tax document (boleta) issued for an order. Customer fields
// and items are a snapshot of the order at issuance time.
//
// Columns other than id/code/order_code carry defaults so they can be added
// to an existing receipts table without failing on old rows.
type Receipt struct {
	ID        uint                          `gorm:"primaryKey" json:"id"`
	Code      string                        `gorm:"size:32;uniqueIndex;not null" json:"code"`
	OrderCode string                        `gorm:"size:32;index;not null" json:"order_code"`
	OwnerID   *uint                         `gorm:"index" json:"owner_id,omitempty"`
	Customer  string                        `gorm:"size:255;not null;default:''" json:"customer"`
	Address   string                        `gorm:"size:255;not null;default:''" json:"address"`
	Phone     string                        `gorm:"size:32;not null;default:''" json:"phone"`
	District  string                        `gorm:"size:120;not null;default:''" json:"district"`
	Region    string                        `gorm:"size:120;not null;default:''" json:"region"`
	Items     datatypes.JSONSlice[LineItem] `gorm:"column:items_json;not null;default:'[]'" json:"items"`
	ItemCount int                           `gorm:"not null;default:0" json:"item_count"`
	Net       decimal.Decimal               `gorm:"type:decimal(14,2);not null;default:0" json:"net"`
	Tax       decimal.Decimal               `gorm:"type:decimal(14,2);not null;default:0" json:"tax"`
	Total     decimal.Decimal               `gorm:"type:decimal(14,2);not null;default:0" json:"total"`
	CreatedAt time.Time                     `json:"created_at"`
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptHeader holds the store/business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}
