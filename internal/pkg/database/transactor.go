package database

import "context"

// Transactor runs fn inside a transaction carried by the context passed to fn.
// Repositories called with that context join the transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
