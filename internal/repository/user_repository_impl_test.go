package repository

import (
	"testing"

	"telemedicine-core/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindActiveDoctor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository()
	doctor := testutil.SeedDoctor(t, db, "Dr. Grace")
	patient := testutil.SeedPatient(t, db, "Ada Patient")
	inactive := testutil.SeedDoctor(t, db, "Dr. Gone")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	found, err := repo.FindActiveDoctor(db, doctor.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, doctor.ID, found.ID)

	for _, id := range []uuid.UUID{patient.ID, inactive.ID, uuid.New()} {
		found, err := repo.FindActiveDoctor(db, id)
		require.NoError(t, err)
		assert.Nil(t, found)
	}

	user, err := repo.FindByID(db, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Patient", user.FullName)
}
