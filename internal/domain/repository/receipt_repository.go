package repository

import (
	"context"

	"github.com/ferreteria/ordenes-api/internal/domain/entity"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByCode(ctx context.Context, code string) (*entity.Receipt, error)
	// GetLatestByOrderCode returns the most recently issued receipt of an order
	GetLatestByOrderCode(ctx context.Context, orderCode string) (*entity.Receipt, error)
	Codes(ctx context.Context, prefix string) ([]string, error)
}
