package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP generates a random numeric one-time code of the given length
func GenerateOTP(length int) (string, error) {
	if length < 1 {
		length = 6
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate OTP: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}

	return string(digits), nil
}
