package identifier

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

// Prefix marks the artifact kind an identifier belongs to.
type Prefix string

const (
	PrefixAppointment   Prefix = "APT"
	PrefixMedicalRecord Prefix = "MR"
	PrefixPrescription  Prefix = "RX"
)

const (
	// SuffixLength is the number of random characters after the prefix
	SuffixLength = 8

	// Alphabet is the set the random suffix is drawn from
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// DefaultMaxAttempts bounds Assign when the caller passes a non-positive limit
	DefaultMaxAttempts = 5
)

// rejectAbove is the largest multiple of len(Alphabet) that fits in a byte.
// Bytes at or above it are discarded so every character is equally likely.
const rejectAbove = 256 - (256 % len(Alphabet))

var (
	ErrExhausted     = errors.New("identifier generation exhausted its retry budget")
	ErrUnknownPrefix = errors.New("unknown identifier prefix")
)

// New returns prefix followed by SuffixLength characters drawn from
// Alphabet using crypto/rand.
func New(prefix Prefix) (string, error) {
	if !prefix.known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrefix, string(prefix))
	}

	var sb strings.Builder
	sb.Grow(len(prefix) + SuffixLength)
	sb.WriteString(string(prefix))

	buf := make([]byte, SuffixLength*2)
	written := 0
	for written < SuffixLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			sb.WriteByte(Alphabet[int(b)%len(Alphabet)])
			written++
			if written == SuffixLength {
				break
			}
		}
	}

	return sb.String(), nil
}

// Valid reports whether id is a well-formed identifier for prefix.
// Matching is case-sensitive.
func Valid(prefix Prefix, id string) bool {
	if !strings.HasPrefix(id, string(prefix)) {
		return false
	}
	suffix := id[len(prefix):]
	if len(suffix) != SuffixLength {
		return false
	}
	for i := 0; i < len(suffix); i++ {
		if strings.IndexByte(Alphabet, suffix[i]) < 0 {
			return false
		}
	}
	return true
}

// Assign generates identifiers and hands them to persist until persist
// succeeds. An error for which isCollision returns true triggers a fresh
// identifier; any other error is returned as-is. After maxAttempts
// collisions ErrExhausted is returned wrapping the last collision.
func Assign(prefix Prefix, maxAttempts int, persist func(id string) error, isCollision func(error) bool) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id, err := New(prefix)
		if err != nil {
			return "", err
		}

		err = persist(id)
		if err == nil {
			return id, nil
		}
		if !isCollision(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrExhausted, maxAttempts, lastErr)
}

func (p Prefix) known() bool {
	switch p {
	case PrefixAppointment, PrefixMedicalRecord, PrefixPrescription:
		return true
	}
	return false
}
