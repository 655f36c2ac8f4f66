package repository

import (
	"context"
	"errors"

	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	domainRepo "github.com/ferreteria/ordenes-api/internal/domain/repository"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return conn(ctx, r.db).Create(order).Error
}

func (r *orderRepository) GetByCode(ctx context.Context, code string) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).First(&order, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, error) {
	orders := make([]entity.Order, 0)
	err := conn(ctx, r.db).
		Model(&entity.Order{}).
		Scopes(OwnerOrUnownedScope(params.OwnerID)).
		Order("created_at DESC, id DESC").
		Limit(params.Limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Codes(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := conn(ctx, r.db).
		Model(&entity.Order{}).
		Scopes(CodePrefixScope(prefix)).
		Pluck("code", &codes).Error
	return codes, err
}
