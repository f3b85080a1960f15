package pgsql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koperasi-pos/kasir_backend/internal/apperrors"
	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

// guardTransition is what stands between two concurrent writers that both
// validated the same snapshot: whichever commits second must see the other's
// status under the lock and fail.
func TestGuardTransition(t *testing.T) {
	assert.NoError(t, guardTransition(domain.StatusPending, domain.StatusCompleted))
	assert.NoError(t, guardTransition(domain.StatusPending, domain.StatusCancelled))
	assert.NoError(t, guardTransition(domain.StatusCompleted, domain.StatusCancelled))
	assert.NoError(t, guardTransition(domain.StatusCompleted, domain.StatusRefunded))

	// A second cancel of the same transaction finds the row already
	// cancelled and must not compensate again.
	assert.ErrorIs(t, guardTransition(domain.StatusCancelled, domain.StatusCancelled), apperrors.ErrInvalidState)

	// A cancel that raced a settle finds the row cancelled and must not
	// overwrite it back to completed.
	assert.ErrorIs(t, guardTransition(domain.StatusCancelled, domain.StatusCompleted), apperrors.ErrInvalidState)

	assert.ErrorIs(t, guardTransition(domain.StatusRefunded, domain.StatusCancelled), apperrors.ErrInvalidState)
	assert.ErrorIs(t, guardTransition(domain.StatusRefunded, domain.StatusRefunded), apperrors.ErrInvalidState)
	assert.ErrorIs(t, guardTransition(domain.StatusPending, domain.StatusRefunded), apperrors.ErrInvalidState)
}
