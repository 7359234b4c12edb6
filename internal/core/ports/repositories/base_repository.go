package repositories

import "context"

// TxRunner runs fn inside a single database transaction. The transaction commits when fn
// returns nil and rolls back otherwise, so either every write inside fn lands or none does.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx BoardTx) error) error
}
