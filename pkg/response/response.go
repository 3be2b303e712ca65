package response

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope of every JSON reply
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// ConflictDetail tells the client whether repeating the request can succeed
type ConflictDetail struct {
	Retryable bool     `json:"retryable"`
	Allowed   []string `json:"allowed,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{Success: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, statusCode int, message string, detail interface{}) {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	JSON(w, statusCode, Response{Success: false, Message: message, Error: detail})
}

// ValidationError carries the field -> message map produced by the validator
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	Error(w, http.StatusBadRequest, "Validation failed", fields)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message, nil)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message, nil)
}

func Conflict(w http.ResponseWriter, message string, detail *ConflictDetail) {
	Error(w, http.StatusConflict, message, detail)
}

func UnprocessableEntity(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnprocessableEntity, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message, nil)
}

// PNG writes raw image bytes
func PNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
