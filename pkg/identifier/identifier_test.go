package identifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Format(t *testing.T) {
	for _, prefix := range []Prefix{PrefixAppointment, PrefixMedicalRecord, PrefixPrescription} {
		id, err := New(prefix)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(id, string(prefix)), "id %s should start with %s", id, prefix)
		assert.Len(t, id, len(prefix)+SuffixLength)
		assert.True(t, Valid(prefix, id), "id %s should be valid for %s", id, prefix)
	}
}

func TestNew_UnknownPrefix(t *testing.T) {
	_, err := New(Prefix("XX"))
	assert.ErrorIs(t, err, ErrUnknownPrefix)
}

func TestNew_NoDuplicatesIn100k(t *testing.T) {
	const n = 100000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id, err := New(PrefixAppointment)
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate identifier %s after %d generations", id, i)
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		name   string
		prefix Prefix
		id     string
		want   bool
	}{
		{"well formed", PrefixAppointment, "APTA1B2C3D4", true},
		{"wrong prefix", PrefixMedicalRecord, "APTA1B2C3D4", false},
		{"lowercase suffix", PrefixPrescription, "RXa1b2c3d4", false},
		{"lowercase prefix", PrefixPrescription, "rxA1B2C3D4", false},
		{"short suffix", PrefixMedicalRecord, "MRABC", false},
		{"long suffix", PrefixMedicalRecord, "MRABCDEFGHI", false},
		{"symbol in suffix", PrefixMedicalRecord, "MRABCD-FGH", false},
		{"empty", PrefixMedicalRecord, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Valid(tc.prefix, tc.id))
		})
	}
}

var errCollision = errors.New("duplicate key")

func isTestCollision(err error) bool { return errors.Is(err, errCollision) }

func TestAssign_RetriesOnCollision(t *testing.T) {
	var tried []string
	id, err := Assign(PrefixPrescription, 5, func(id string) error {
		tried = append(tried, id)
		if len(tried) < 3 {
			return errCollision
		}
		return nil
	}, isTestCollision)

	require.NoError(t, err)
	assert.Len(t, tried, 3)
	assert.Equal(t, tried[2], id)
	assert.True(t, Valid(PrefixPrescription, id))
}

func TestAssign_ExhaustsBudget(t *testing.T) {
	calls := 0
	_, err := Assign(PrefixMedicalRecord, 4, func(string) error {
		calls++
		return errCollision
	}, isTestCollision)

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 4, calls)
}

func TestAssign_DefaultBudget(t *testing.T) {
	calls := 0
	_, err := Assign(PrefixMedicalRecord, 0, func(string) error {
		calls++
		return errCollision
	}, isTestCollision)

	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, DefaultMaxAttempts, calls)
}

func TestAssign_NonCollisionErrorIsNotRetried(t *testing.T) {
	boom := errors.New("connection reset")
	calls := 0
	_, err := Assign(PrefixAppointment, 5, func(string) error {
		calls++
		return boom
	}, isTestCollision)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, calls)
}
