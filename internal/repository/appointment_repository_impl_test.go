package repository

import (
	"testing"

	"telemedicine-core/internal/domain/entity"
	domainRepo "telemedicine-core/internal/domain/repository"
	"telemedicine-core/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentRepository_UpdateStatusIsConditional(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	patient := testutil.SeedPatient(t, db, "Ada Patient")
	doctor := testutil.SeedDoctor(t, db, "Dr. Grace")
	appt := testutil.SeedAppointment(t, db, "APTAAAA0001", patient, doctor, entity.AppointmentStatusPending)

	affected, err := repo.UpdateStatus(db, appt.ID, entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// Stale expectation loses.
	affected, err = repo.UpdateStatus(db, appt.ID, entity.AppointmentStatusPending, entity.AppointmentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	stored, err := repo.FindByID(db, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentStatusConfirmed, stored.Status)
}

func TestAppointmentRepository_FindByBookingID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	patient := testutil.SeedPatient(t, db, "Ada Patient")
	doctor := testutil.SeedDoctor(t, db, "Dr. Grace")
	testutil.SeedAppointment(t, db, "APTAAAA0001", patient, doctor, entity.AppointmentStatusPending)

	found, err := repo.FindByBookingID(db, "APTAAAA0001")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.Doctor)
	assert.Equal(t, "Dr. Grace", found.Doctor.FullName)
	assert.Equal(t, "Ada Patient", found.Patient.FullName)

	missing, err := repo.FindByBookingID(db, "APTZZZZ9999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAppointmentRepository_ListForUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	patient := testutil.SeedPatient(t, db, "Ada Patient")
	other := testutil.SeedPatient(t, db, "Bob Patient")
	doctor := testutil.SeedDoctor(t, db, "Dr. Grace")
	testutil.SeedAppointment(t, db, "APTAAAA0001", patient, doctor, entity.AppointmentStatusPending)
	testutil.SeedAppointment(t, db, "APTAAAA0002", patient, doctor, entity.AppointmentStatusConfirmed)
	testutil.SeedAppointment(t, db, "APTAAAA0003", other, doctor, entity.AppointmentStatusPending)

	mine, err := repo.ListForUser(db, patient.ID, domainRepo.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	doctors, err := repo.ListForUser(db, doctor.ID, domainRepo.AppointmentFilter{Status: entity.AppointmentStatusPending})
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	for _, a := range doctors {
		assert.Equal(t, entity.AppointmentStatusPending, a.Status)
	}

	none, err := repo.ListForUser(db, uuid.New(), domainRepo.AppointmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAppointmentRepository_DuplicateBookingID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAppointmentRepository()
	patient := testutil.SeedPatient(t, db, "Ada Patient")
	doctor := testutil.SeedDoctor(t, db, "Dr. Grace")
	testutil.SeedAppointment(t, db, "APTAAAA0001", patient, doctor, entity.AppointmentStatusPending)

	err := repo.Create(db, &entity.Appointment{
		BookingID:     "APTAAAA0001",
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		ScheduledTime: "10:00",
		Status:        entity.AppointmentStatusPending,
	})
	assert.Error(t, err)
}
