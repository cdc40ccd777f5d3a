package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ConfirmationLength is the number of characters in a confirmation number.
const ConfirmationLength = 8

const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// byteLimit is the largest multiple of the alphabet size that fits in a byte.
// Bytes at or above it are discarded so every character is equally likely.
const byteLimit = 256 - 256%len(confirmationAlphabet)

// NewConfirmationNumber returns a random code of uppercase letters and
// digits, drawn from the random bytes of v4 UUIDs.
func NewConfirmationNumber() string {
	var b strings.Builder
	b.Grow(ConfirmationLength)
	for b.Len() < ConfirmationLength {
		id := uuid.New()
		for i, c := range id {
			// version and variant bits
			if i == 6 || i == 8 {
				continue
			}
			if int(c) >= byteLimit {
				continue
			}
			b.WriteByte(confirmationAlphabet[int(c)%len(confirmationAlphabet)])
			if b.Len() == ConfirmationLength {
				break
			}
		}
	}
	return b.String()
}
