package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainRepo "github.com/ferreteria/ordenes-api/internal/domain/repository"
	"gorm.io/gorm"
)

// ledgerTables are locked by every write transaction on postgres
var ledgerTables = []string{"orders", "receipts"}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor bound to db
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

// WriteTx runs fn inside one transaction. On sqlite the DSN makes every
// BEGIN an IMMEDIATE one; on postgres the ledger tables are locked in a mode
// that conflicts with other writers but not with plain readers.
func (t *transactor) WriteTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := TxFromContext(ctx); ok {
		return errors.New("nested write transaction")
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			stmt := fmt.Sprintf("LOCK TABLE %s IN SHARE ROW EXCLUSIVE MODE", strings.Join(ledgerTables, ", "))
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to lock ledger tables: %w", err)
			}
		}
		return fn(WithTx(ctx, tx))
	})
}

// IsUniqueViolation reports whether err comes from a unique constraint
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
