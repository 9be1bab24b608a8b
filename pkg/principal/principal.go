// Package principal carries the authenticated caller of an operation through a context.
package principal

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type callerKey struct{}

// WithCaller returns a copy of ctx that carries an authenticated caller address.
// Only authentication layers (HTTP middleware, CLI key loaders) should call this.
func WithCaller(ctx context.Context, caller common.Address) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerKey{}, caller)
}

// Caller returns the authenticated caller. ok is false if the context is anonymous.
func Caller(ctx context.Context) (caller common.Address, ok bool) {
	if ctx == nil {
		return common.Address{}, false
	}
	caller, ok = ctx.Value(callerKey{}).(common.Address)
	if ok && caller == (common.Address{}) {
		return common.Address{}, false
	}
	return caller, ok
}
