package repository

import (
	"context"

	"github.com/ferreteria/ordenes-api/internal/domain/entity"
)

// OrderRepository defines the interface for order data operations.
// Get methods return (nil, nil) when nothing matches.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByCode(ctx context.Context, code string) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, error)
	// Codes returns every stored order code carrying the given prefix
	Codes(ctx context.Context, prefix string) ([]string, error)
}

// OrderFilterParams contains filtering parameters for order queries.
// OwnerID keeps that owner's orders and orders without an owner.
type OrderFilterParams struct {
	Limit   int
	OwnerID *uint
}
