package service

import "context"

// TxRunner executes fn inside one atomic unit of work. Everything written
// through repositories with the returned context commits or rolls back
// together.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
