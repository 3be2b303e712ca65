package usecase

import (
	"telemedicine-core/pkg/lookupcode"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// lookupCodeStore is satisfied by the record and prescription repositories
type lookupCodeStore interface {
	SetLookupCodeIfAbsent(db *gorm.DB, id uuid.UUID, code []byte) (int64, error)
}

// ensureLookupCode returns the stored image, generating and storing it first
// when absent. If a concurrent caller stored one in between, the returned
// bytes are identical because encoding is deterministic.
func ensureLookupCode(db *gorm.DB, store lookupCodeStore, encoder *lookupcode.Encoder, kind lookupcode.Kind, publicID string, id uuid.UUID, stored []byte) ([]byte, error) {
	if len(stored) > 0 {
		return stored, nil
	}

	code, err := encoder.Encode(kind, publicID)
	if err != nil {
		return nil, err
	}

	if _, err := store.SetLookupCodeIfAbsent(db, id, code); err != nil {
		return nil, err
	}
	return code, nil
}
