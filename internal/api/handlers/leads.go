package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hugh/contractor-connect/internal/api/dto"
	"github.com/hugh/contractor-connect/internal/api/middleware"
	"github.com/hugh/contractor-connect/internal/leads"
)

type LeadHandler struct {
	leads  *leads.Service
	logger *slog.Logger
}

func NewLeadHandler(service *leads.Service, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{leads: service, logger: logger}
}

// List handles GET /api/leads
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := h.leads.List(r.Context(), userID, r.URL.Query().Get("stage"))
	if err != nil {
		h.fail(w, err, "list leads")
		return
	}

	writeJSON(w, http.StatusOK, dto.NewLeadResponses(list))
}

// Create handles POST /api/leads
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.fail(w, err, "create lead")
		return
	}

	lead, err := h.leads.Create(r.Context(), middleware.GetUserID(r.Context()), input)
	if err != nil {
		h.fail(w, err, "create lead")
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewLeadResponse(lead))
}

// Get handles GET /api/leads/{id}
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	lead, err := h.leads.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.fail(w, err, "get lead")
		return
	}

	writeJSON(w, http.StatusOK, dto.NewLeadDetailResponse(lead))
}

// Update handles PUT /api/leads/{id}
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	var req dto.UpdateLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		h.fail(w, err, "update lead")
		return
	}

	lead, err := h.leads.Update(r.Context(), middleware.GetUserID(r.Context()), id, patch)
	if err != nil {
		h.fail(w, err, "update lead")
		return
	}

	writeJSON(w, http.StatusOK, dto.NewLeadResponse(lead))
}

// Delete handles DELETE /api/leads/{id}
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	if err := h.leads.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.fail(w, err, "delete lead")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Deleted"})
}

// AddNote handles POST /api/leads/{id}/notes
func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	var req dto.CreateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.leads.AddNote(r.Context(), middleware.GetUserID(r.Context()), id, req.Text())
	if err != nil {
		h.fail(w, err, "add note")
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewNoteResponse(note))
}

func (h *LeadHandler) fail(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, leads.ErrLeadNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case leads.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("lead request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to "+op)
	}
}
