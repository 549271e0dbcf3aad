// Package codes generates the two public identifier formats: the box short
// id and the printable QR token. Both are produced from crypto/rand and are
// only probabilistically unique; callers retry a bounded number of times
// against the per-workspace uniqueness constraint.
package codes

import (
	"crypto/rand"
	"regexp"
)

const (
	shortIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	shortIDLength   = 10

	tokenPrefixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	tokenBodyAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	tokenBodyLength     = 6
)

// TokenPattern matches a printable QR token: two-letter prefix, hyphen,
// six uppercase-alphanumeric characters (e.g. "BX-7K2M9A").
var TokenPattern = regexp.MustCompile(`^[A-Z]{2}-[0-9A-Z]{6}$`)

// ShortID returns a 10-character lowercase-alphanumeric box identifier.
func ShortID() string {
	return randomString(shortIDAlphabet, shortIDLength)
}

// QrToken returns a freshly generated token matching TokenPattern.
func QrToken() string {
	return randomString(tokenPrefixAlphabet, 2) + "-" + randomString(tokenBodyAlphabet, tokenBodyLength)
}

func randomString(alphabet string, n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; a broken entropy
		// source is not recoverable at this level.
		panic("codes: crypto/rand unavailable: " + err.Error())
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out)
}
