package handler

import (
	"net/http"

	"telemedicine-core/internal/usecase"
	"telemedicine-core/pkg/response"

	"github.com/sirupsen/logrus"
)

// AuthHandler exposes the caller's own session. Login lives in the identity
// service.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	log         *logrus.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		log:         log,
	}
}

// GetCurrentUser godoc
// @Summary Current account
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.CurrentUserResponse}
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	me, err := h.authUsecase.GetCurrentUser(r.Context())
	if err != nil {
		writeError(w, h.log, err, "Failed to get user info")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", me)
}

// Logout godoc
// @Summary Revoke the access token used for this request
// @Tags Auth
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authUsecase.Logout(r.Context()); err != nil {
		writeError(w, h.log, err, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logged out", nil)
}
