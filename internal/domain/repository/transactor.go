package repository

import "context"

// Transactor runs a unit of work inside a write transaction that holds the
// store's write lock from its first statement until commit or rollback.
// Repository calls made with the ctx passed to fn join that transaction.
type Transactor interface {
	WriteTx(ctx context.Context, fn func(ctx context.Context) error) error
}
