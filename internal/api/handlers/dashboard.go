package handlers

import (
	"log/slog"
	"net/http"

	"github.com/hugh/contractor-connect/internal/api/dto"
	"github.com/hugh/contractor-connect/internal/api/middleware"
	"github.com/hugh/contractor-connect/internal/dashboard"
)

type DashboardHandler struct {
	dashboard *dashboard.Service
	logger    *slog.Logger
}

func NewDashboardHandler(service *dashboard.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: service, logger: logger}
}

// Summary handles GET /api/dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.Error("failed to build dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dto.NewDashboardResponse(summary))
}
