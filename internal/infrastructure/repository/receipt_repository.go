package repository

import (
	"context"
	"errors"

	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	domainRepo "github.com/ferreteria/ordenes-api/internal/domain/repository"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return conn(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) GetByCode(ctx context.Context, code string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).First(&receipt, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) GetLatestByOrderCode(ctx context.Context, orderCode string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := conn(ctx, r.db).
		Where("order_code = ?", orderCode).
		Order("id DESC").
		Take(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) Codes(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := conn(ctx, r.db).
		Model(&entity.Receipt{}).
		Scopes(CodePrefixScope(prefix)).
		Pluck("code", &codes).Error
	return codes, err
}
