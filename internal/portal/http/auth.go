package http

import (
	"net/http"

	"github.com/shiphyhq/portal/internal/portal/domain"
	"github.com/shiphyhq/portal/internal/portal/service"
	"github.com/shiphyhq/portal/pkg/httpx"
	"github.com/shiphyhq/portal/pkg/slogx"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	Gate *service.GateService
}

// LoginRequest is the login form.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`

	// Emergency marks an emergency-password attempt during lockdown.
	Emergency bool `json:"emergency,omitempty"`
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in to the portal
//	@Description	Runs the authentication gate. On success the response carries a bearer
//	@Description	token; the message "2FA_REQUIRED" means the caller must complete OTP
//	@Description	verification before a token is issued.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest		true	"Credentials"
//	@Success		200		{object}	domain.LoginResult	"Login outcome"
//	@Failure		400		{object}	ErrorResponse		"Malformed request"
//	@Failure		401		{object}	domain.LoginResult	"Authentication failed"
//	@Failure		429		{object}	domain.LoginResult	"Burst detection tripped"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Body must be JSON with username and password.")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Username and password are required.")
		return
	}

	res, err := h.Gate.Login(ctx, req.Username, req.Password, req.Emergency)
	if err != nil {
		log.Error("login failed", "err", err)
		writeServerError(w)
		return
	}

	status := http.StatusOK
	switch {
	case res.Success:
	case res.Message == domain.MessageTooManyRequests:
		status = http.StatusTooManyRequests
	default:
		status = http.StatusUnauthorized
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, status, res)
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Log out
//	@Description	Ends the active portal session. Idempotent.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Session cleared"
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Gate.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
