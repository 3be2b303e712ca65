package usecase

import (
	"context"
	"testing"

	"telemedicine-core/internal/delivery/http/middleware"
	"telemedicine-core/internal/domain/entity"
	"telemedicine-core/internal/repository"
	"telemedicine-core/internal/service"
	"telemedicine-core/internal/testutil"
	"telemedicine-core/pkg/lookupcode"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testBaseURL = "https://telemed.example.test"

type fixture struct {
	db      *gorm.DB
	counter *service.NotificationCounterService

	appointments  AppointmentUsecase
	consultations ConsultationUsecase
	notifications NotificationUsecase
	records       MedicalRecordUsecase
	prescriptions PrescriptionUsecase
	verification  VerificationUsecase

	doctor   *entity.User
	patient  *entity.User
	stranger *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	appointmentRepo := repository.NewAppointmentRepository()
	consultationRepo := repository.NewConsultationRepository()
	chatMessageRepo := repository.NewChatMessageRepository()
	notificationRepo := repository.NewNotificationRepository()
	recordRepo := repository.NewMedicalRecordRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	userRepo := repository.NewUserRepository()

	counter := service.NewNotificationCounterService(db, client, log, notificationRepo)
	t.Cleanup(counter.Stop)

	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())
	notificationService := service.NewNotificationService(log, notificationRepo, counter)
	encoder := lookupcode.NewEncoder(testBaseURL)

	return &fixture{
		db:            db,
		counter:       counter,
		appointments:  NewAppointmentUsecase(db, log, appointmentRepo, consultationRepo, userRepo, auditService, notificationService, 5),
		consultations: NewConsultationUsecase(db, log, appointmentRepo, consultationRepo, chatMessageRepo, auditService, notificationService, 3),
		notifications: NewNotificationUsecase(db, log, notificationRepo, counter),
		records:       NewMedicalRecordUsecase(db, log, appointmentRepo, recordRepo, auditService, notificationService, encoder, 5),
		prescriptions: NewPrescriptionUsecase(db, log, appointmentRepo, prescriptionRepo, auditService, notificationService, encoder, 5),
		verification:  NewVerificationUsecase(db, log, recordRepo, prescriptionRepo, encoder),
		doctor:        testutil.SeedDoctor(t, db, "Dr. Grace Hopper"),
		patient:       testutil.SeedPatient(t, db, "Ada Lovelace"),
		stranger:      testutil.SeedPatient(t, db, "Eve Outsider"),
	}
}

func asUser(user *entity.User) context.Context {
	return context.WithValue(context.Background(), middleware.UserIDKey, user.ID)
}

func (f *fixture) seedAppointment(t *testing.T, bookingID string, status entity.AppointmentStatus) *entity.Appointment {
	t.Helper()
	return testutil.SeedAppointment(t, f.db, bookingID, f.patient, f.doctor, status)
}

func (f *fixture) notificationCount(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&entity.Notification{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func (f *fixture) appointmentStatus(t *testing.T, bookingID string) entity.AppointmentStatus {
	t.Helper()
	var appointment entity.Appointment
	require.NoError(t, f.db.Where("booking_id = ?", bookingID).First(&appointment).Error)
	return appointment.Status
}
