package app

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"math/big"

	"hotel_concierge/internal/domain"
)

const (
	codeAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeSuffixLen = 6
	// 36^6 codes; hitting this bound means the generator or the store is broken.
	maxCodeAttempts = 8
)

// CodeGenerator produces candidate confirmation codes.
type CodeGenerator func() (string, error)

// RandomConfirmationCode returns the fixed prefix followed by 6 random [A-Z0-9] characters.
func RandomConfirmationCode() (string, error) {
	buf := make([]byte, 0, len(domain.ConfirmationPrefix)+codeSuffixLen)
	buf = append(buf, domain.ConfirmationPrefix...)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeSuffixLen; i++ {
		n, err := crand.Int(crand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		buf = append(buf, codeAlphabet[n.Int64()])
	}
	return string(buf), nil
}

// uniqueCode regenerates on collision, checking existing codes inside the caller's transaction.
func uniqueCode(ctx context.Context, tx domain.BookingTx, gen CodeGenerator) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := gen()
		if err != nil {
			return "", err
		}
		taken, err := tx.ConfirmationCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", domain.ErrCodeSpaceExhausted, maxCodeAttempts)
}
