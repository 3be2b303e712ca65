package handler

import (
	"net/http"

	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/usecase"
	"telemedicine-core/pkg/response"
	"telemedicine-core/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
	log                 *logrus.Logger
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator, log *logrus.Logger) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
		log:                 log,
	}
}

func (h *PrescriptionHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePrescriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	prescription, err := h.prescriptionUsecase.CreatePrescription(r.Context(), mux.Vars(r)["booking_id"], &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to create prescription")
		return
	}

	response.Success(w, http.StatusCreated, "Prescription created successfully", prescription)
}

func (h *PrescriptionHandler) GetMyPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.prescriptionUsecase.GetMyPrescriptions(r.Context())
	if err != nil {
		writeError(w, h.log, err, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) RegenerateLookupCode(w http.ResponseWriter, r *http.Request) {
	prescription, err := h.prescriptionUsecase.RegenerateLookupCode(r.Context(), mux.Vars(r)["prescription_id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to regenerate lookup code")
		return
	}

	response.Success(w, http.StatusOK, "Lookup code regenerated successfully", prescription)
}
