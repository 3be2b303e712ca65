package http

import (
	"net/http"

	"telemedicine-core/internal/delivery/http/handler"
	"telemedicine-core/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	appointmentHandler  *handler.AppointmentHandler
	consultationHandler *handler.ConsultationHandler
	notificationHandler *handler.NotificationHandler
	recordHandler       *handler.MedicalRecordHandler
	prescriptionHandler *handler.PrescriptionHandler
	verificationHandler *handler.VerificationHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	consultationHandler *handler.ConsultationHandler,
	notificationHandler *handler.NotificationHandler,
	recordHandler *handler.MedicalRecordHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	verificationHandler *handler.VerificationHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		appointmentHandler:  appointmentHandler,
		consultationHandler: consultationHandler,
		notificationHandler: notificationHandler,
		recordHandler:       recordHandler,
		prescriptionHandler: prescriptionHandler,
		verificationHandler: verificationHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered even though no route declares OPTIONS.
func (r *Router) Setup() http.Handler {
	// Public verification pages, reached by scanning a lookup code
	r.router.HandleFunc("/record/{id}/", r.verificationHandler.GetRecord).Methods(http.MethodGet)
	r.router.HandleFunc("/record/{id}/qr.png", r.verificationHandler.GetRecordLookupCode).Methods(http.MethodGet)
	r.router.HandleFunc("/prescription/{id}/", r.verificationHandler.GetPrescription).Methods(http.MethodGet)
	r.router.HandleFunc("/prescription/{id}/qr.png", r.verificationHandler.GetPrescriptionLookupCode).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Session
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)

	// Appointments
	protected.Handle("/appointments", patientOnly(r.appointmentHandler.CreateAppointment)).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{booking_id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{booking_id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)
	protected.Handle("/appointments/{booking_id}/notes", doctorOnly(r.appointmentHandler.UpdateNotes)).Methods(http.MethodPut)
	protected.Handle("/appointments/{booking_id}/reminder", doctorOnly(r.appointmentHandler.SendReminder)).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{booking_id}/history", r.appointmentHandler.GetHistory).Methods(http.MethodGet)

	// Consultation room and chat
	protected.HandleFunc("/appointments/{booking_id}/consultation", r.consultationHandler.OpenConsultation).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{booking_id}/consultation", r.consultationHandler.GetConsultation).Methods(http.MethodGet)
	protected.Handle("/appointments/{booking_id}/consultation", doctorOnly(r.consultationHandler.UpdateConsultation)).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{booking_id}/consultation/close", r.consultationHandler.CloseConsultation).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{booking_id}/consultation/messages", r.consultationHandler.GetMessages).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{booking_id}/consultation/messages", r.consultationHandler.SendMessage).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{booking_id}/consultation/messages/read", r.consultationHandler.MarkMessagesRead).Methods(http.MethodPost)

	// Clinical artifacts
	protected.Handle("/appointments/{booking_id}/records", doctorOnly(r.recordHandler.CreateRecord)).Methods(http.MethodPost)
	protected.Handle("/appointments/{booking_id}/prescriptions", doctorOnly(r.prescriptionHandler.CreatePrescription)).Methods(http.MethodPost)
	protected.Handle("/records", patientOnly(r.recordHandler.GetMyRecords)).Methods(http.MethodGet)
	protected.Handle("/records/{record_id}/lookup-code", doctorOnly(r.recordHandler.RegenerateLookupCode)).Methods(http.MethodPost)
	protected.Handle("/prescriptions", patientOnly(r.prescriptionHandler.GetMyPrescriptions)).Methods(http.MethodGet)
	protected.Handle("/prescriptions/{prescription_id}/lookup-code", doctorOnly(r.prescriptionHandler.RegenerateLookupCode)).Methods(http.MethodPost)

	// Notifications
	protected.HandleFunc("/notifications", r.notificationHandler.GetMyNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/unread-count", r.notificationHandler.GetUnreadCount).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}/read", r.notificationHandler.MarkRead).Methods(http.MethodPut)

	return r.corsMiddleware.Handle(r.router)
}

func doctorOnly(fn http.HandlerFunc) http.Handler {
	return middleware.RequireDoctor(fn)
}

func patientOnly(fn http.HandlerFunc) http.Handler {
	return middleware.RequirePatient(fn)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
