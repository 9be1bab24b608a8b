package datagateway

import "context"

// Tx ends a unit of work opened by BeginPresaleTx. Both methods are no-ops once
// the transaction is finished, so Rollback can always be deferred.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
