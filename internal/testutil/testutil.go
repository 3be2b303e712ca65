// Package testutil provides an in-memory GORM database and seed helpers for
// package tests.
package testutil

import (
	"fmt"
	"io"
	"testing"
	"time"

	"telemedicine-core/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory database with every table migrated.
// A single connection keeps the in-memory schema alive for the whole test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Appointment{},
		&entity.Consultation{},
		&entity.ChatMessage{},
		&entity.Notification{},
		&entity.MedicalRecord{},
		&entity.Prescription{},
		&entity.AuditLog{},
	))

	return db
}

// NewLogger returns a logger that discards output
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func SeedUser(t *testing.T, db *gorm.DB, roleID int, fullName string) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:       uuid.New(),
		RoleID:   roleID,
		Email:    fmt.Sprintf("%s@example.test", uuid.NewString()),
		FullName: fullName,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func SeedDoctor(t *testing.T, db *gorm.DB, fullName string) *entity.User {
	t.Helper()
	return SeedUser(t, db, entity.RoleIDDoctor, fullName)
}

func SeedPatient(t *testing.T, db *gorm.DB, fullName string) *entity.User {
	t.Helper()
	return SeedUser(t, db, entity.RoleIDPatient, fullName)
}

// SeedAppointment inserts an appointment directly in the given status
func SeedAppointment(t *testing.T, db *gorm.DB, bookingID string, patient, doctor *entity.User, status entity.AppointmentStatus) *entity.Appointment {
	t.Helper()

	appointment := &entity.Appointment{
		BookingID:       bookingID,
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentType: entity.AppointmentTypeVideo,
		ScheduledDate:   time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
		ScheduledTime:   "09:30",
		Status:          status,
	}
	require.NoError(t, db.Create(appointment).Error)
	return appointment
}
