// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const orderNumberPrefix = "VLR-"

func GenerateRandomString(length int, charset string) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateOrderNumber produces the human-facing order reference, e.g.
// VLR-8FK2Q9X1MT. Uniqueness is enforced by the orders.order_number index;
// the caller retries on a collision.
func GenerateOrderNumber() (string, error) {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	randomPart, err := GenerateRandomString(10, charset)
	if err != nil {
		return "", err
	}
	return orderNumberPrefix + randomPart, nil
}
