package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Initials derives the avatar initials from a display name: first letter
// of the first and last word, or a single letter for one-word names.
// Letters are decoded as runes, not bytes, so multibyte names stay valid
// UTF-8.
func Initials(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	if len(words) == 0 {
		return ""
	}
	first, _ := utf8.DecodeRuneInString(words[0])
	if len(words) == 1 {
		return strings.ToUpper(string(first))
	}
	last, _ := utf8.DecodeRuneInString(words[len(words)-1])
	return strings.ToUpper(string(first) + string(last))
}

// avatar colors are drawn from a dark palette so white text stays
// readable; "#ffffff" is reserved as the own-profile sentinel.
const colorAlphabet = "0123456789ABC"

// RandomColor generates a random dark avatar color.
func RandomColor() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	var b strings.Builder
	b.WriteByte('#')
	for _, v := range buf {
		b.WriteByte(colorAlphabet[int(v)%len(colorAlphabet)])
	}
	return b.String(), nil
}
