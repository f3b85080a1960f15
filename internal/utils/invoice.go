package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateInvoiceNumber builds a human-readable invoice number:
// prefix + yyyymmddHHMMSS (UTC) + a 4-digit random suffix, e.g.
// INV202501021504059831. The database enforces uniqueness with a unique
// index; the random suffix keeps same-second checkouts from colliding.
func GenerateInvoiceNumber(prefix string, now time.Time) (string, error) {
	if prefix == "" {
		prefix = "INV"
	}
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate invoice suffix: %w", err)
	}
	return fmt.Sprintf("%s%s%04d", prefix, now.UTC().Format("20060102150405"), n.Int64()), nil
}
