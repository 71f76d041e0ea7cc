package http

import (
	"net/http"

	"github.com/shiphyhq/portal/internal/portal/service"
	"github.com/shiphyhq/portal/pkg/httpx"
	"github.com/shiphyhq/portal/pkg/slogx"
)

// maxUploadBytes caps the multipart body; the file is validated, never kept.
const maxUploadBytes = 10 << 20

// UploadHandler handles the flag-gated FTE candidate upload.
type UploadHandler struct {
	Upload *service.UploadService
}

type flagVerifyRequest struct {
	Flag string `json:"flag"`
}

type flagVerifyResponse struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// HandleVerifyFlag handles POST /v1/upload/flag/verify
//
//	@Summary		Submit the upload flag
//	@Description	A correct flag opens the upload window for a few seconds.
//	@Tags			Upload
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		flagVerifyRequest	true	"Submitted flag"
//	@Success		200		{object}	flagVerifyResponse	"Window open"
//	@Failure		400		{object}	flagVerifyResponse	"Wrong flag"
//	@Failure		401		{object}	ErrorResponse		"Invalid or missing access token"
//	@Router			/v1/upload/flag/verify [post].
func (h *UploadHandler) HandleVerifyFlag(w http.ResponseWriter, r *http.Request) {
	var req flagVerifyRequest
	if err := decodeJSON(r, &req); err != nil || req.Flag == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Body must be JSON with a flag.")
		return
	}

	if !h.Upload.VerifyFlag(r.Context(), req.Flag) {
		httpx.WriteJSON(w, http.StatusBadRequest, flagVerifyResponse{
			Message: "Invalid flag. Complete all CTF challenges first.",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, flagVerifyResponse{
		Verified: true,
		Message:  "Flag verified! Upload window open for 10 seconds!",
	})
}

// HandleUpload handles POST /v1/upload
//
//	@Summary		Upload the FTE candidate list
//	@Description	Multipart upload, single-use inside the unlocked window. The file must
//	@Description	be a PDF named FTE_Candidates_YYYY.pdf.
//	@Tags			Upload
//	@Security		BearerAuth
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file					true	"Candidate list PDF"
//	@Success		200		{object}	service.UploadResult	"Upload accepted"
//	@Failure		400		{object}	service.UploadResult	"File failed validation"
//	@Failure		401		{object}	ErrorResponse			"Invalid or missing access token"
//	@Failure		409		{object}	service.UploadResult	"Window closed, expired or already used"
//	@Router			/v1/upload [post].
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Body must be multipart form data with a file field.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Missing file field.")
		return
	}
	defer file.Close()

	res := h.Upload.CompleteUpload(ctx, header.Filename, header.Header.Get("Content-Type"))
	if !res.Success {
		log.Info("upload rejected", "filename", header.Filename, "reason", res.Message)
		status := http.StatusConflict
		switch res.Message {
		case service.MessageUploadNotPDF, service.MessageUploadBadFilename:
			status = http.StatusBadRequest
		}
		httpx.WriteJSON(w, status, res)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleStatus handles GET /v1/upload/status
//
//	@Summary		Inspect the upload challenge
//	@Tags			Upload
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	domain.UploadChallenge	"Live challenge state"
//	@Router			/v1/upload/status [get].
func (h *UploadHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, h.Upload.Status())
}

// HandleReset handles POST /v1/upload/reset
//
//	@Summary		Reset the upload challenge
//	@Description	Clears the window, the single-use latch and the cached flag.
//	@Tags			Upload
//	@Security		BearerAuth
//	@Success		204	"Reset"
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/upload/reset [post].
func (h *UploadHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.Upload.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
