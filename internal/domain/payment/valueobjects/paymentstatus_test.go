package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_Transitions(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPaid))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusCancelled))
	assert.False(t, PaymentStatusPending.CanTransitionTo(PaymentStatusRefunded))

	for _, terminal := range []PaymentStatus{PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded} {
		assert.True(t, terminal.IsTerminal())
		for _, target := range AllPaymentStatuses() {
			assert.False(t, terminal.CanTransitionTo(target), "%s -> %s", terminal, target)
		}
	}
}

func TestParsePaymentStatus(t *testing.T) {
	s, err := ParsePaymentStatus("cancelled")
	assert.NoError(t, err)
	assert.Equal(t, PaymentStatusCancelled, s)

	_, err = ParsePaymentStatus("expired")
	assert.Error(t, err)
}
