package http

import (
	"net/http"

	"github.com/shiphyhq/portal/internal/portal/domain"
	"github.com/shiphyhq/portal/internal/portal/service"
	"github.com/shiphyhq/portal/pkg/httpx"
)

// StateHandler exposes the portal-wide security state and its feeds. The
// read side is public: the login portal renders from it, and inspectable
// state is part of the exercise's attack surface.
type StateHandler struct {
	Security *service.SecurityService
}

type announcementRequest struct {
	Title    string                  `json:"title"`
	Message  string                  `json:"message"`
	Type     domain.AnnouncementType `json:"type"`
	ForRoles []domain.Role           `json:"for_roles,omitempty"`
}

type alertRequest struct {
	Type     domain.AlertType     `json:"type"`
	Severity domain.AlertSeverity `json:"severity"`
	Message  string               `json:"message"`
	Username string               `json:"username,omitempty"`
	Details  string               `json:"details,omitempty"`
}

// HandleState handles GET /v1/state
//
//	@Summary		Read the portal security state
//	@Description	Emergency mode, security level, blocked users, announcements and the
//	@Description	alert feed, newest first.
//	@Tags			State
//	@Produce		json
//	@Success		200	{object}	domain.SystemState	"Current state"
//	@Router			/v1/state [get].
func (h *StateHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, h.Security.SystemState())
}

// HandleAddAnnouncement handles POST /v1/announcements
//
//	@Summary		Publish an announcement
//	@Tags			State
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	announcementRequest	true	"Announcement"
//	@Success		201		"Published"
//	@Failure		400		{object}	ErrorResponse	"Bad type, role or empty title"
//	@Router			/v1/announcements [post].
func (h *StateHandler) HandleAddAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Body must be a JSON announcement.")
		return
	}
	if err := h.Security.AddAnnouncement(r.Context(), req.Title, req.Message, req.Type, req.ForRoles); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_announcement", err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// HandleAddAlert handles POST /v1/alerts
//
//	@Summary		Record a security alert
//	@Tags			State
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	alertRequest	true	"Alert"
//	@Success		201		"Recorded"
//	@Failure		400		{object}	ErrorResponse	"Unknown type or severity"
//	@Router			/v1/alerts [post].
func (h *StateHandler) HandleAddAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Body must be a JSON alert.")
		return
	}
	if err := h.Security.AddAlert(r.Context(), req.Type, req.Severity, req.Message, req.Username, req.Details); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_alert", err.Error())
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// HandleClearAlerts handles DELETE /v1/alerts
//
//	@Summary		Clear the alert feed
//	@Tags			State
//	@Security		BearerAuth
//	@Success		204	"Cleared"
//	@Router			/v1/alerts [delete].
func (h *StateHandler) HandleClearAlerts(w http.ResponseWriter, r *http.Request) {
	h.Security.ClearAlerts(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
