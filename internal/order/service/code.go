package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateOrderCode builds a human-readable order reference such as
// ORD/20260828/7KQ2M. Ambiguous characters are excluded from the suffix so
// the code survives being read over the phone.
func generateOrderCode(now time.Time) (string, error) {
	suffix := make([]byte, 5)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed reading random bytes with error=%w", err)
	}
	for i, b := range suffix {
		suffix[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return fmt.Sprintf("ORD/%s/%s", now.Format("20060102"), suffix), nil
}
