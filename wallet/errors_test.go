package wallet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/wallet-engine/wallet"
)

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", wallet.ErrorKind(nil))
	assert.Equal(t, "invalid_amount", wallet.ErrorKind(&wallet.AmountError{Op: "deposit"}))
	assert.Equal(t, "invalid_type", wallet.ErrorKind(&wallet.TypeError{Value: "x"}))
	assert.Equal(t, "invalid_transition", wallet.ErrorKind(&wallet.TransitionError{}))
	assert.Equal(t, "internal", wallet.ErrorKind(assert.AnError))

	assert.True(t, wallet.IsClientError(&wallet.InsufficientFundsError{}))
	assert.False(t, wallet.IsClientError(assert.AnError))
}

func TestStructuredErrors_UnwrapToSentinels(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{&wallet.AmountError{Op: "withdraw", Reason: "below minimum 10"}, wallet.ErrInvalidAmount},
		{&wallet.InsufficientFundsError{}, wallet.ErrInsufficientFunds},
		{&wallet.TransitionError{ID: "6", From: wallet.StatusCompleted, To: wallet.StatusFailed}, wallet.ErrInvalidTransition},
		{&wallet.TypeError{Value: "jackpot"}, wallet.ErrInvalidType},
	}

	for _, tc := range cases {
		assert.ErrorIs(t, tc.err, tc.sentinel, tc.err.Error())
		assert.True(t, wallet.IsClientError(tc.err))
	}
	assert.Equal(t, "invalid amount: bad", (&wallet.AmountError{Op: "parse", Reason: "bad"}).Error())
}
