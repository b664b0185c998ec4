package ports

import "context"

// Tx is the store-specific transaction handle a UnitOfWork places in the
// context; the relational adapters use *gorm.DB.
type Tx any

// UnitOfWork runs fn inside one transaction. fn returning nil commits; any
// error rolls back and is returned unchanged. Nested calls join the outer
// transaction.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

func WithTxContext(ctx context.Context, tx Tx) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the active transaction, or nil outside a unit of work.
func TxFromContext(ctx context.Context) Tx {
	if ctx == nil {
		return nil
	}
	return ctx.Value(txKey{})
}
