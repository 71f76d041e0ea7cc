package http

import (
	"errors"
	"net/http"

	"github.com/shiphyhq/portal/internal/portal/service"
	"github.com/shiphyhq/portal/pkg/httpx"
	"github.com/shiphyhq/portal/pkg/slogx"
)

// OTPHandler handles the HR two-factor endpoints. The challenge state,
// current code included, is readable without authentication:
// recovering the code without being sent it is the intended solve.
type OTPHandler struct {
	OTP *service.OTPService
}

type otpVerifyRequest struct {
	Code string `json:"code"`
}

type otpMaxAttemptsRequest struct {
	MaxAttempts int `json:"max_attempts"`
}

// HandleVerify handles POST /v1/auth/otp/verify
//
//	@Summary		Verify an OTP code
//	@Description	Completes the HR login. A correct code establishes the session and
//	@Description	returns the bearer token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		otpVerifyRequest	true	"Submitted code"
//	@Success		200		{object}	service.OTPResult	"Verified; token issued"
//	@Failure		401		{object}	service.OTPResult	"Wrong code"
//	@Failure		409		{object}	ErrorResponse		"No login pending verification"
//	@Failure		429		{object}	service.OTPResult	"Cooldown active"
//	@Router			/v1/auth/otp/verify [post].
func (h *OTPHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req otpVerifyRequest
	if err := decodeJSON(r, &req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Body must be JSON with a code.")
		return
	}

	res, err := h.OTP.Verify(ctx, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrNoChallenge) {
			writeError(w, http.StatusConflict, "no_challenge", "No login is pending verification.")
			return
		}
		log.Error("otp verify failed", "err", err)
		writeServerError(w)
		return
	}

	status := http.StatusOK
	switch {
	case res.Success:
	case res.CooldownSeconds > 0:
		status = http.StatusTooManyRequests
	default:
		status = http.StatusUnauthorized
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, status, res)
}

// HandleResend handles POST /v1/auth/otp/resend
//
//	@Summary		Resend the OTP challenge
//	@Description	Regenerates the code for the pending HR login and clears any cooldown.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	domain.OTPChallenge	"Fresh challenge"
//	@Failure		409	{object}	ErrorResponse		"No login pending verification"
//	@Router			/v1/auth/otp/resend [post].
func (h *OTPHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ch, err := h.OTP.Resend(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoChallenge) {
			writeError(w, http.StatusConflict, "no_challenge", "No login is pending verification.")
			return
		}
		writeServerError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, ch)
}

// HandleGet handles GET /v1/auth/otp
//
//	@Summary		Inspect the OTP challenge
//	@Description	Returns the live challenge including seed and code. The exposure is a
//	@Description	documented property of the exercise, not an oversight.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	domain.OTPChallenge	"Live challenge state"
//	@Failure		404	{object}	ErrorResponse		"No challenge active"
//	@Router			/v1/auth/otp [get].
func (h *OTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.OTP.Challenge()
	if !ok {
		writeError(w, http.StatusNotFound, "no_challenge", "No challenge active.")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, ch)
}

// HandleMaxAttempts handles PUT /v1/auth/otp/max-attempts
//
//	@Summary		Reconfigure the OTP attempt ceiling
//	@Description	Runtime-tunable by the same trust domain the verifier tests. Raising it
//	@Description	is a documented bypass path.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	otpMaxAttemptsRequest	true	"New ceiling"
//	@Success		204		"Updated"
//	@Failure		400		{object}	ErrorResponse	"Invalid value"
//	@Router			/v1/auth/otp/max-attempts [put].
func (h *OTPHandler) HandleMaxAttempts(w http.ResponseWriter, r *http.Request) {
	var req otpMaxAttemptsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Body must be JSON with max_attempts.")
		return
	}
	if err := h.OTP.SetMaxAttempts(req.MaxAttempts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "max_attempts must be at least 1.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
