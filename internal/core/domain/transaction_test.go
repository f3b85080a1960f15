package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

func TestTransactionStatusTransitions(t *testing.T) {
	cases := []struct {
		from    domain.TransactionStatus
		to      domain.TransactionStatus
		allowed bool
	}{
		{domain.StatusPending, domain.StatusCompleted, true},
		{domain.StatusPending, domain.StatusCancelled, true},
		{domain.StatusPending, domain.StatusRefunded, false},
		{domain.StatusCompleted, domain.StatusCancelled, true},
		{domain.StatusCompleted, domain.StatusRefunded, true},
		{domain.StatusCompleted, domain.StatusPending, false},
		{domain.StatusCancelled, domain.StatusCompleted, false},
		{domain.StatusCancelled, domain.StatusPending, false},
		{domain.StatusRefunded, domain.StatusCancelled, false},
		{domain.StatusRefunded, domain.StatusCompleted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}

func TestTransactionStatusIsTerminal(t *testing.T) {
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.False(t, domain.StatusCompleted.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
	assert.True(t, domain.StatusRefunded.IsTerminal())
}
