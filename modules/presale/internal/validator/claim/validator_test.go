package claimvalidator

import (
	"testing"
	"time"

	"github.com/gaze-network/presale/modules/presale/internal/entity"
	"github.com/gaze-network/presale/modules/presale/reason"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestClaimValidator(t *testing.T) {
	release := time.Unix(1_800_000_000, 0)
	state := &entity.State{ReleaseTime: release}

	testCases := []struct {
		name      string
		immediate bool
		now       time.Time
		balance   *uint256.Int
		expected  reason.Reason
	}{
		{name: "ok", now: release.Add(time.Second), balance: uint256.NewInt(1)},
		{name: "exactly_at_release", now: release, balance: uint256.NewInt(1)},
		{name: "immediate_mode", immediate: true, now: release, balance: uint256.NewInt(1), expected: reason.ClaimDisabled},
		{name: "before_release", now: release.Add(-time.Second), balance: uint256.NewInt(1), expected: reason.InvalidTime},
		{name: "zero_balance", now: release, balance: uint256.NewInt(0), expected: reason.NothingToClaim},
		{name: "no_entry", now: release, expected: reason.NothingToClaim},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := *state
			s.ImmediateDelivery = tc.immediate
			v := New()
			v.ClaimEnabled(&s)
			v.Released(&s, tc.now)
			v.HasBalance(tc.balance)
			if tc.expected == "" {
				assert.True(t, v.Valid)
				assert.NoError(t, v.Err())
				return
			}
			assert.False(t, v.Valid)
			assert.Equal(t, tc.expected, v.Reason)
		})
	}
}
