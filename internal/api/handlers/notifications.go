package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hugh/contractor-connect/internal/api/dto"
	"github.com/hugh/contractor-connect/internal/api/middleware"
	"github.com/hugh/contractor-connect/internal/notifications"
)

type NotificationHandler struct {
	notifications *notifications.Service
	logger        *slog.Logger
}

func NewNotificationHandler(service *notifications.Service, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: service, logger: logger}
}

// Send handles POST /api/notifications/send. Provider trouble is reported
// in the record's status, not as an HTTP error.
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dto.SendNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	n, err := h.notifications.Send(r.Context(), middleware.GetUserID(r.Context()), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, notifications.ErrInvalidChannel),
			errors.Is(err, notifications.ErrMissingFields):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, notifications.ErrLeadNotFound):
			writeError(w, http.StatusBadRequest, "lead_id does not match one of your leads")
		default:
			h.logger.Error("failed to record notification", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to send notification")
		}
		return
	}

	h.logger.Info("notification dispatched", "channel", n.Channel, "status", n.Status)
	writeJSON(w, http.StatusOK, dto.NewNotificationResponse(n))
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := h.notifications.List(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		h.logger.Error("failed to list notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	writeJSON(w, http.StatusOK, dto.NewNotificationResponses(list))
}
