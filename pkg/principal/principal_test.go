package principal

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestCaller(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000000a1")

	_, ok := Caller(context.Background())
	assert.False(t, ok)

	caller, ok := Caller(WithCaller(context.Background(), addr))
	assert.True(t, ok)
	assert.Equal(t, addr, caller)

	_, ok = Caller(WithCaller(context.Background(), common.Address{}))
	assert.False(t, ok, "zero address is never an authenticated caller")
}
