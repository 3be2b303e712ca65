package handler

import (
	"net/http"
	"strconv"

	"telemedicine-core/internal/usecase"
	"telemedicine-core/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
	log                 *logrus.Logger
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase, log *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
		log:                 log,
	}
}

// GetMyNotifications lists the inbox; ?unread=true restricts it to unread ones
func (h *NotificationHandler) GetMyNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := false
	if raw := r.URL.Query().Get("unread"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "unread must be true or false")
			return
		}
		unreadOnly = parsed
	}

	notifications, err := h.notificationUsecase.GetMyNotifications(r.Context(), unreadOnly)
	if err != nil {
		writeError(w, h.log, err, "Failed to get notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully", notifications)
}

func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationUsecase.GetUnreadCount(r.Context())
	if err != nil {
		writeError(w, h.log, err, "Failed to count notifications")
		return
	}

	response.Success(w, http.StatusOK, "Unread count retrieved successfully", count)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid notification ID")
		return
	}

	notification, err := h.notificationUsecase.MarkRead(r.Context(), notificationID)
	if err != nil {
		writeError(w, h.log, err, "Failed to mark notification as read")
		return
	}

	response.Success(w, http.StatusOK, "Notification marked as read", notification)
}
