package utils_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koperasi-pos/kasir_backend/internal/utils"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	invoice, err := utils.GenerateInvoiceNumber("INV", now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(invoice, "INV20260102150405"))
	assert.Len(t, invoice, len("INV20260102150405")+4)
}

func TestGenerateInvoiceNumberDefaultPrefix(t *testing.T) {
	invoice, err := utils.GenerateInvoiceNumber("", time.Now())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(invoice, "INV"))
}
