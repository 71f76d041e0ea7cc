package http

import (
	"errors"
	"net/http"

	"github.com/shiphyhq/portal/internal/portal/domain"
	"github.com/shiphyhq/portal/internal/portal/service"
	"github.com/shiphyhq/portal/pkg/httpx"
)

// BlueTeamHandler carries the privileged security operations.
type BlueTeamHandler struct {
	Security *service.SecurityService
	Gate     *service.GateService
	OTP      *service.OTPService
	Upload   *service.UploadService
}

type securityLevelRequest struct {
	Level string `json:"level"`
}

// blueTeamConfig is the tunables view for the blue team dashboard.
type blueTeamConfig struct {
	MaxOTPAttempts         int                    `json:"max_otp_attempts"`
	OTPCooldownSeconds     int                    `json:"otp_cooldown_seconds"`
	LockoutRemainingSecond int                    `json:"lockout_remaining_seconds"`
	Upload                 domain.UploadChallenge `json:"upload"`
}

// HandleBlock handles POST /v1/blueteam/users/{username}/block
//
//	@Summary		Block a user
//	@Tags			BlueTeam
//	@Security		BearerAuth
//	@Param			username	path	string	true	"Username"
//	@Success		204			"Blocked"
//	@Failure		404			{object}	ErrorResponse	"Unknown user"
//	@Router			/v1/blueteam/users/{username}/block [post].
func (h *BlueTeamHandler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := h.Security.BlockUser(r.Context(), username); err != nil {
		if errors.Is(err, service.ErrUnknownUser) {
			writeError(w, http.StatusNotFound, "unknown_user", "No such user: "+username)
			return
		}
		writeServerError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUnblock handles POST /v1/blueteam/users/{username}/unblock
//
//	@Summary		Unblock a user
//	@Tags			BlueTeam
//	@Security		BearerAuth
//	@Param			username	path	string	true	"Username"
//	@Success		204			"Unblocked"
//	@Failure		404			{object}	ErrorResponse	"Unknown user"
//	@Router			/v1/blueteam/users/{username}/unblock [post].
func (h *BlueTeamHandler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := h.Security.UnblockUser(r.Context(), username); err != nil {
		if errors.Is(err, service.ErrUnknownUser) {
			writeError(w, http.StatusNotFound, "unknown_user", "No such user: "+username)
			return
		}
		writeServerError(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleKickAll handles POST /v1/blueteam/kick-all
//
//	@Summary		Terminate all sessions
//	@Tags			BlueTeam
//	@Security		BearerAuth
//	@Success		204	"Sessions terminated"
//	@Router			/v1/blueteam/kick-all [post].
func (h *BlueTeamHandler) HandleKickAll(w http.ResponseWriter, r *http.Request) {
	h.Security.KickAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// HandleEmergencyOn handles POST /v1/blueteam/emergency
//
//	@Summary		Trigger emergency lockdown
//	@Description	Kicks everyone; admin and boss must re-authenticate with emergency passwords.
//	@Tags			BlueTeam
//	@Security		BearerAuth
//	@Success		204	"Lockdown active"
//	@Router			/v1/blueteam/emergency [post].
func (h *BlueTeamHandler) HandleEmergencyOn(w http.ResponseWriter, r *http.Request) {
	h.Security.TriggerEmergency(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// HandleEmergencyOff handles DELETE /v1/blueteam/emergency
//
//	@Summary		End emergency lockdown
//	@Tags			BlueTeam
//	@Security		BearerAuth
//	@Success		204	"Lockdown lifted"
//	@Router			/v1/blueteam/emergency [delete].
func (h *BlueTeamHandler) HandleEmergencyOff(w http.ResponseWriter, r *http.Request) {
	h.Security.DisableEmergency(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// HandleFTELogin handles POST /v1/blueteam/fte-login
//
//	@Summary		Open the FTE conversion portal
//	@Description	One-way latch; once open it stays open.
//	@Tags			BlueTeam
//	@Security		BearerAuth
//	@Success		204	"FTE login available"
//	@Router			/v1/blueteam/fte-login [post].
func (h *BlueTeamHandler) HandleFTELogin(w http.ResponseWriter, r *http.Request) {
	h.Security.EnableFTELogin(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// HandleSecurityLevel handles PUT /v1/blueteam/security-level
//
//	@Summary		Set the advisory security level
//	@Tags			BlueTeam
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	securityLevelRequest	true	"normal, elevated or lockdown"
//	@Success		204		"Updated"
//	@Failure		400		{object}	ErrorResponse	"Unknown level"
//	@Router			/v1/blueteam/security-level [put].
func (h *BlueTeamHandler) HandleSecurityLevel(w http.ResponseWriter, r *http.Request) {
	var req securityLevelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Body must be JSON with a level.")
		return
	}
	if err := h.Security.UpdateSecurityLevel(r.Context(), domain.SecurityLevel(req.Level)); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_level", "Level must be normal, elevated or lockdown.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleConfig handles GET /v1/blueteam/config
//
//	@Summary		Read the live challenge tunables
//	@Tags			BlueTeam
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	blueTeamConfig	"Current tunables"
//	@Router			/v1/blueteam/config [get].
func (h *BlueTeamHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := blueTeamConfig{
		MaxOTPAttempts:         h.OTP.MaxAttempts(),
		LockoutRemainingSecond: h.Gate.LockoutRemaining(),
		Upload:                 h.Upload.Status(),
	}
	if ch, ok := h.OTP.Challenge(); ok {
		cfg.OTPCooldownSeconds = ch.CooldownSeconds
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, cfg)
}
