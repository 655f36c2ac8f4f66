package service

import (
	"context"
	"time"

	"github.com/ferreteria/ordenes-api/internal/config"
	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/internal/domain/repository"
	infraRepo "github.com/ferreteria/ordenes-api/internal/infrastructure/repository"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/ferreteria/ordenes-api/pkg/codegen"
	"github.com/rs/zerolog"
)

// OrderService registers and lists purchase orders
type OrderService struct {
	orderRepo repository.OrderRepository
	tx        repository.Transactor
	cfg       config.LedgerConfig
	log       zerolog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	tx repository.Transactor,
	cfg config.LedgerConfig,
	log zerolog.Logger,
) *OrderService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.DefaultListLimit <= 0 {
		cfg.DefaultListLimit = 100
	}
	return &OrderService{
		orderRepo: orderRepo,
		tx:        tx,
		cfg:       cfg,
		log:       log.With().Str("component", "orders").Logger(),
	}
}

// PreviewCode returns the code the next order would get if submitted now.
// It takes no lock, so the value is only a hint for display.
func (s *OrderService) PreviewCode(ctx context.Context) (string, error) {
	codes, err := s.orderRepo.Codes(ctx, codegen.Order.Prefix)
	if err != nil {
		return "", apperror.NewStorageError("Failed to read order codes", err)
	}
	return codegen.Order.Next(codes), nil
}

// Submit validates and stores a new order and returns its code.
//
// Each attempt generates the code and inserts the row inside one write
// transaction. A code collision is retried with a fresh code after a short
// backoff; the pre-assigned code, if any, is only tried on the first attempt.
func (s *OrderService) Submit(ctx context.Context, input *SubmitOrderInput) (string, error) {
	input.normalize()
	if errs := input.validate(); len(errs) > 0 {
		return "", apperror.NewValidationError(errs)
	}

	items := input.lineItems()
	_, net := entity.SumItems(items)

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, s.cfg.RetryBackoff); err != nil {
				return "", apperror.NewStorageError("Order submission cancelled", err)
			}
		}

		var order *entity.Order
		err := s.tx.WriteTx(ctx, func(ctx context.Context) error {
			code := input.PreassignedCode
			if code == "" || attempt > 1 {
				codes, err := s.orderRepo.Codes(ctx, codegen.Order.Prefix)
				if err != nil {
					return err
				}
				code = codegen.Order.Next(codes)
			}

			order = &entity.Order{
				Code:     code,
				Customer: input.Customer,
				Address:  input.Address,
				Phone:    input.Phone,
				District: input.District,
				Region:   input.Region,
				Items:    items,
				Net:      net,
				OwnerID:  input.OwnerID,
			}
			return s.orderRepo.Create(ctx, order)
		})

		switch {
		case err == nil:
			s.log.Info().
				Str("code", order.Code).
				Str("net", net.StringFixed(2)).
				Int("attempt", attempt).
				Msg("order registered")
			return order.Code, nil
		case infraRepo.IsUniqueViolation(err):
			s.log.Warn().
				Int("attempt", attempt).
				Int("max_attempts", s.cfg.MaxAttempts).
				Msg("order code collision")
		default:
			s.log.Error().Err(err).Msg("order insert failed")
			return "", apperror.NewStorageError("Failed to register order", err)
		}
	}

	return "", apperror.NewCollisionError("Could not assign a unique order code, please retry")
}

// List returns the most recent orders, newest first. A non-nil ownerID
// keeps that owner's orders plus orders without an owner; nil lists all.
func (s *OrderService) List(ctx context.Context, limit int, ownerID *uint) ([]entity.Order, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultListLimit
	}
	orders, err := s.orderRepo.List(ctx, &repository.OrderFilterParams{
		Limit:   limit,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, apperror.NewStorageError("Failed to list orders", err)
	}
	return orders, nil
}

// Get returns the order with the given code
func (s *OrderService) Get(ctx context.Context, code string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, apperror.NewStorageError("Failed to get order", err)
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
