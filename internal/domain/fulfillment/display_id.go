package fulfillment

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	displayIDPrefix = "ORD-"
	displayIDLength = 6
	// no 0/O or 1/I so ids survive being read over the phone
	displayIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewDisplayID generates a human-readable order code such as ORD-7KQ2XM
func NewDisplayID() string {
	var b strings.Builder
	b.WriteString(displayIDPrefix)
	limit := big.NewInt(int64(len(displayIDAlphabet)))
	for i := 0; i < displayIDLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		b.WriteByte(displayIDAlphabet[n.Int64()])
	}
	return b.String()
}

// IsDisplayID reports whether s looks like a generated display id
func IsDisplayID(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, displayIDPrefix) || len(s) != len(displayIDPrefix)+displayIDLength {
		return false
	}
	for _, r := range s[len(displayIDPrefix):] {
		if !strings.ContainsRune(displayIDAlphabet, r) {
			return false
		}
	}
	return true
}
