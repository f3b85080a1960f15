package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koperasi-pos/kasir_backend/internal/utils/pagination"
)

func TestEncodeDecodeTokenRoundTrip(t *testing.T) {
	transactionDate := time.Date(2026, 3, 14, 9, 30, 0, 123456789, time.UTC)
	createdAt := time.Date(2026, 3, 14, 9, 30, 1, 987654321, time.UTC)

	token := pagination.EncodeToken(transactionDate, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreated, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, transactionDate.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreated))
}

func TestDecodeTokenInvalid(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)

	_, _, err = pagination.DecodeToken("bm8tc2VwYXJhdG9y") // "no-separator"
	assert.Error(t, err)
}

func TestEncodeDecodeDateBasedTokenRoundTrip(t *testing.T) {
	date := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	token := pagination.EncodeDateBasedToken(date)
	got, err := pagination.DecodeDateBasedToken(token)
	require.NoError(t, err)
	assert.True(t, date.Equal(got))
}
