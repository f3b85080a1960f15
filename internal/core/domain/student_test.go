package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/koperasi-pos/kasir_backend/internal/core/domain"
)

func TestLiabilityStatusFor(t *testing.T) {
	amount := decimal.NewFromInt(50000)

	assert.Equal(t, domain.LiabilityUnpaid, domain.LiabilityStatusFor(amount, decimal.Zero))
	assert.Equal(t, domain.LiabilityPartial, domain.LiabilityStatusFor(amount, decimal.NewFromInt(20000)))
	assert.Equal(t, domain.LiabilityPaid, domain.LiabilityStatusFor(amount, amount))
	assert.Equal(t, domain.LiabilityPaid, domain.LiabilityStatusFor(amount, decimal.NewFromInt(60000)))
}
