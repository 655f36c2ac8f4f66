package repository

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey string

const (
	// txKey is the context key for the active write transaction
	txKey ctxKey = "ledger_tx"
)

// WithTx stores tx in ctx so repositories join the transaction
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// TxFromContext returns the transaction carried by ctx, if any
func TxFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	return tx, ok
}

// conn returns the transaction in ctx, falling back to the pool
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// OwnerOrUnownedScope keeps rows owned by ownerID and rows without an
// owner, which predate user accounts. A nil ownerID leaves the query
// unfiltered.
func OwnerOrUnownedScope(ownerID *uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == nil {
			return db
		}
		return db.Where("owner_id = ? OR owner_id IS NULL", *ownerID)
	}
}

// CodePrefixScope keeps rows whose code starts with prefix
func CodePrefixScope(prefix string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("code LIKE ?", prefix+"%")
	}
}
