package purchasevalidator

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func state() *entity.State {
	return &entity.State{
		TotalRaised: uint256.NewInt(900),
		TotalVested: uint256.NewInt(0),
		HardCap:     uint256.NewInt(1000),
		MinPurchase: uint256.NewInt(10),
		MaxPurchase: uint256.NewInt(500),
	}
}

func TestCheck(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(s *entity.State)
		amount   uint64
		expected error
	}{
		{name: "ok", amount: 50},
		{name: "exactly_min", amount: 10},
		{name: "exactly_fills_cap", amount: 100},
		{name: "paused", mutate: func(s *entity.State) { s.Paused = true }, amount: 50, expected: reason.Paused},
		{name: "below_min", amount: 9, expected: reason.BelowMinimum},
		{name: "above_max", mutate: func(s *entity.State) { s.TotalRaised = uint256.NewInt(0) }, amount: 501, expected: reason.AboveMaximum},
		{name: "hard_cap", amount: 101, expected: reason.HardCapExceeded},
		{
			name:     "paused_wins_over_minimum",
			mutate:   func(s *entity.State) { s.Paused = true },
			amount:   1,
			expected: reason.Paused,
		},
		{
			name:     "overflowing_total",
			mutate:   func(s *entity.State) { s.TotalRaised = new(uint256.Int).SetAllOne(); s.HardCap = new(uint256.Int).SetAllOne() },
			amount:   10,
			expected: reason.HardCapExceeded,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := state()
			if tc.mutate != nil {
				tc.mutate(s)
			}
			before := s.Clone()

			err := Check(s, uint256.NewInt(tc.amount))
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tc.expected), "expected %v, got %v", tc.expected, err)
			}
			assert.Equal(t, before, *s, "check must not mutate state")
		})
	}
}

func TestValidatorShortCircuits(t *testing.T) {
	v := New()
	assert.False(t, v.NotPaused(&entity.State{Paused: true}))
	// later checks keep the first reason
	assert.False(t, v.AboveMinimum(state(), uint256.NewInt(0)))
	assert.Equal(t, reason.Paused, v.Reason)
}
