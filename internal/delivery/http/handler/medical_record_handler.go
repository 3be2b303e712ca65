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

type MedicalRecordHandler struct {
	recordUsecase usecase.MedicalRecordUsecase
	validator     *validator.CustomValidator
	log           *logrus.Logger
}

func NewMedicalRecordHandler(recordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator, log *logrus.Logger) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
		log:           log,
	}
}

func (h *MedicalRecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMedicalRecordRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordUsecase.CreateRecord(r.Context(), mux.Vars(r)["booking_id"], &req)
	if err != nil {
		writeError(w, h.log, err, "Failed to create medical record")
		return
	}

	response.Success(w, http.StatusCreated, "Medical record created successfully", record)
}

func (h *MedicalRecordHandler) GetMyRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordUsecase.GetMyRecords(r.Context())
	if err != nil {
		writeError(w, h.log, err, "Failed to get medical records")
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", records)
}

func (h *MedicalRecordHandler) RegenerateLookupCode(w http.ResponseWriter, r *http.Request) {
	record, err := h.recordUsecase.RegenerateLookupCode(r.Context(), mux.Vars(r)["record_id"])
	if err != nil {
		writeError(w, h.log, err, "Failed to regenerate lookup code")
		return
	}

	response.Success(w, http.StatusOK, "Lookup code regenerated successfully", record)
}
