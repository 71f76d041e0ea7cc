package http

import (
	"net/http"

	"github.com/shiphyhq/portal/internal/portal/service"
	"github.com/shiphyhq/portal/pkg/httpx"
)

// sshFlag is the terminal easter-egg flag served to whoever reaches the
// admin shell.
const sshFlag = "SHIPHY{y0u_h4ck3d_th3_s3cur3_syst3m_2025}"

// UsersHandler serves the account table views, from the full blue-team
// roster down to the planted debug leak.
type UsersHandler struct {
	Security *service.SecurityService
}

type debugUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Note     string `json:"note"`
}

type sshFlagResponse struct {
	Flag string `json:"flag"`
}

// HandleList handles GET /v1/users
//
//	@Summary		List all accounts
//	@Description	The blue-team roster: full records including credentials, recovery
//	@Description	secrets, failed-attempt counters and block status.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}	domain.UserAccount	"All accounts"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, h.Security.Users())
}

// HandleDebug handles GET /v1/debug/users
//
//	@Summary		Debug user dump
//	@Description	Forgotten diagnostics endpoint leaking one employee credential. Planted:
//	@Description	a login page comment points trainees here.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{array}	debugUser	"Leaked record"
//	@Router			/v1/debug/users [get].
func (h *UsersHandler) HandleDebug(w http.ResponseWriter, r *http.Request) {
	var leaked []debugUser
	for _, u := range h.Security.Users() {
		if u.Username != "emp_001" {
			continue
		}
		leaked = append(leaked, debugUser{
			Username: u.Username,
			Password: u.Password,
			Role:     u.Role.String(),
			Note:     "TODO: remove before production deploy",
		})
	}
	httpx.WriteJSON(w, http.StatusOK, leaked)
}

// HandleSSHFlag handles GET /v1/admin/ssh/flag
//
//	@Summary		Read the terminal flag
//	@Description	The final flag, behind admin access. cat flag.txt, in API form.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	sshFlagResponse	"The flag"
//	@Router			/v1/admin/ssh/flag [get].
func (h *UsersHandler) HandleSSHFlag(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, sshFlagResponse{Flag: sshFlag})
}
