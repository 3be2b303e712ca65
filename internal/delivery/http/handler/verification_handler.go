package handler

import (
	"net/http"

	"telemedicine-core/internal/usecase"
	"telemedicine-core/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// VerificationHandler serves the unauthenticated pages a scanned lookup code points at
type VerificationHandler struct {
	verificationUsecase usecase.VerificationUsecase
	log                 *logrus.Logger
}

func NewVerificationHandler(verificationUsecase usecase.VerificationUsecase, log *logrus.Logger) *VerificationHandler {
	return &VerificationHandler{
		verificationUsecase: verificationUsecase,
		log:                 log,
	}
}

func (h *VerificationHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.verificationUsecase.GetRecord(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to verify medical record")
		return
	}

	response.Success(w, http.StatusOK, "Medical record verified", record)
}

func (h *VerificationHandler) GetRecordLookupCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.verificationUsecase.GetRecordLookupCode(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to render lookup code")
		return
	}

	response.PNG(w, code)
}

func (h *VerificationHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	prescription, err := h.verificationUsecase.GetPrescription(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to verify prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription verified", prescription)
}

func (h *VerificationHandler) GetPrescriptionLookupCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.verificationUsecase.GetPrescriptionLookupCode(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to render lookup code")
		return
	}

	response.PNG(w, code)
}
