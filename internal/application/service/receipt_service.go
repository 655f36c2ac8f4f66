package service

import (
	"context"
	"errors"

	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/internal/domain/repository"
	infraRepo "github.com/ferreteria/ordenes-api/internal/infrastructure/repository"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/ferreteria/ordenes-api/pkg/codegen"
	"github.com/rs/zerolog"
)

// ReceiptService issues and looks up receipts (boletas)
type ReceiptService struct {
	orderRepo   repository.OrderRepository
	receiptRepo repository.ReceiptRepository
	tx          repository.Transactor
	log         zerolog.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	orderRepo repository.OrderRepository,
	receiptRepo repository.ReceiptRepository,
	tx repository.Transactor,
	log zerolog.Logger,
) *ReceiptService {
	return &ReceiptService{
		orderRepo:   orderRepo,
		receiptRepo: receiptRepo,
		tx:          tx,
		log:         log.With().Str("component", "receipts").Logger(),
	}
}

// Issue creates a receipt for the order. The order lookup, code generation
// and insert share one write transaction. Issuing again for the same order
// creates another receipt; FindByOrder returns the newest one.
func (s *ReceiptService) Issue(ctx context.Context, orderCode string) (*entity.Receipt, error) {
	var receipt *entity.Receipt
	err := s.tx.WriteTx(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByCode(ctx, orderCode)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}

		count, recomputed := entity.SumItems(order.Items)
		net, drifted := reconcileNet(recomputed, order.Net)
		if drifted {
			s.log.Warn().
				Str("order", order.Code).
				Str("stored_net", order.Net.StringFixed(2)).
				Str("recomputed_net", recomputed.StringFixed(2)).
				Msg("order net does not match its items, using stored net")
		}
		totals := ComputeTotals(net)

		codes, err := s.receiptRepo.Codes(ctx, codegen.Receipt.Prefix)
		if err != nil {
			return err
		}

		receipt = &entity.Receipt{
			Code:      codegen.Receipt.Next(codes),
			OrderCode: order.Code,
			OwnerID:   order.OwnerID,
			Customer:  order.Customer,
			Address:   order.Address,
			Phone:     order.Phone,
			District:  order.District,
			Region:    order.Region,
			Items:     append([]entity.LineItem(nil), order.Items...),
			ItemCount: count,
			Net:       totals.Net,
			Tax:       totals.Tax,
			Total:     totals.Total,
		}
		return s.receiptRepo.Create(ctx, receipt)
	})

	if err != nil {
		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr):
			return nil, appErr
		case infraRepo.IsUniqueViolation(err):
			s.log.Warn().Str("order", orderCode).Msg("receipt code collision")
			return nil, apperror.NewCollisionError("Receipt code already taken, please retry")
		default:
			s.log.Error().Err(err).Str("order", orderCode).Msg("receipt insert failed")
			return nil, apperror.NewStorageError("Failed to issue receipt", err)
		}
	}

	s.log.Info().
		Str("code", receipt.Code).
		Str("order", receipt.OrderCode).
		Str("total", receipt.Total.StringFixed(2)).
		Msg("receipt issued")
	return receipt, nil
}

// FindByCode returns the receipt with the given code
func (s *ReceiptService) FindByCode(ctx context.Context, code string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, apperror.NewStorageError("Failed to get receipt", err)
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// FindByOrder returns the most recently issued receipt of an order
func (s *ReceiptService) FindByOrder(ctx context.Context, orderCode string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetLatestByOrderCode(ctx, orderCode)
	if err != nil {
		return nil, apperror.NewStorageError("Failed to get receipt", err)
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// PreviewCode returns the code the next receipt would get
func (s *ReceiptService) PreviewCode(ctx context.Context) (string, error) {
	codes, err := s.receiptRepo.Codes(ctx, codegen.Receipt.Prefix)
	if err != nil {
		return "", apperror.NewStorageError("Failed to read receipt codes", err)
	}
	return codegen.Receipt.Next(codes), nil
}
