package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/shiphyhq/portal/internal/portal/domain"
)

// Upload result messages, checked in the order CompleteUpload fails closed.
const (
	MessageUploadDisabled    = "Upload system is disabled. Verify the flag first."
	MessageUploadWindowUsed  = "Upload window closed. Only one attempt is allowed."
	MessageUploadExpired     = "Upload window expired."
	MessageUploadNotPDF      = "Only PDF files are accepted."
	MessageUploadBadFilename = "Invalid filename. Required format: FTE_Candidates_YYYY.pdf"
	MessageUploadSuccess     = "FTE candidate list uploaded successfully."
)

var fteFilenameRE = regexp.MustCompile(`^FTE_Candidates_\d{4}\.pdf$`)

// UploadResult is the outcome of a completeUpload call.
type UploadResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UploadConfig tunes the flag-gated upload engine.
type UploadConfig struct {
	// Window is how long uploads stay unlocked after a correct flag.
	Window time.Duration

	// FlagBucket is the time-bucket width of the flag derivation; the flag
	// rotates once per bucket.
	FlagBucket time.Duration
}

func (c *UploadConfig) applyDefaults() {
	if c.Window <= 0 {
		c.Window = 10 * time.Second
	}
	if c.FlagBucket <= 0 {
		c.FlagBucket = 10 * time.Second
	}
}

// UploadService is the final challenge: a time-rotating flag unlocks a short
// single-use upload window for the FTE candidate list. The flag formula is
// recoverable from the planted hints; racing the window is the exercise.
type UploadService struct {
	State  *State
	Config UploadConfig

	// challenge and flag are guarded by State.mu. flag caches the last
	// derived value until a close or reset invalidates it.
	challenge domain.UploadChallenge
	flag      string

	window *countdown
}

func NewUploadService(state *State, cfg UploadConfig) *UploadService {
	cfg.applyDefaults()
	return &UploadService{
		State:  state,
		Config: cfg,
		window: newCountdown(state.now),
	}
}

// currentFlagLocked returns the cached flag, deriving it from the current
// time bucket when the cache is empty. Caller holds State.mu.
func (u *UploadService) currentFlagLocked() string {
	if u.flag != "" {
		return u.flag
	}

	bucket := u.State.now().Unix() / int64(u.Config.FlagBucket/time.Second)
	hash := (bucket * 31337) % 9999
	u.flag = fmt.Sprintf("SHIPHY{upld_%04d}", hash)
	return u.flag
}

// VerifyFlag compares a submitted flag against the current bucket's value.
// A match opens the upload window and arms its auto-close.
func (u *UploadService) VerifyFlag(ctx context.Context, submitted string) bool {
	st := u.State
	st.mu.Lock()
	defer st.mu.Unlock()

	if submitted != u.currentFlagLocked() {
		return false
	}

	expiry := st.now().Add(u.Config.Window)
	u.challenge.Unlocked = true
	u.challenge.WindowExpiry = &expiry
	u.challenge.Attempted = false
	u.window.Start(u.Config.Window, u.onWindowExpire)

	st.log.InfoContext(ctx, "upload window opened",
		slog.Time("expires", expiry))
	return true
}

// CompleteUpload validates an upload inside the open window. Checks fail
// closed in a fixed order; passing them all burns the window's single
// attempt whether or not anything is ever done with the file.
func (u *UploadService) CompleteUpload(ctx context.Context, filename, contentType string) UploadResult {
	st := u.State
	st.mu.Lock()
	defer st.mu.Unlock()

	if u.challenge.Attempted {
		return UploadResult{Message: MessageUploadWindowUsed}
	}
	if !u.challenge.Unlocked {
		return UploadResult{Message: MessageUploadDisabled}
	}
	if u.challenge.WindowExpiry == nil || st.now().After(*u.challenge.WindowExpiry) {
		u.closeWindowLocked()
		return UploadResult{Message: MessageUploadExpired}
	}

	// The window is single-use: any attempt that gets this far burns it,
	// whether or not the file passes validation.
	u.challenge.Attempted = true

	if contentType != "application/pdf" {
		return UploadResult{Message: MessageUploadNotPDF}
	}
	if !fteFilenameRE.MatchString(filename) {
		return UploadResult{Message: MessageUploadBadFilename}
	}

	u.closeWindowLocked()

	st.newAnnouncementLocked(
		"FTE Candidate List Uploaded",
		fmt.Sprintf("The Full-Time Employment candidate list %s has been submitted for processing.", filename),
		domain.AnnouncementFTE,
		nil,
	)
	st.log.InfoContext(ctx, "upload completed",
		slog.String("filename", filename))
	st.persistLocked(ctx)

	return UploadResult{Success: true, Message: MessageUploadSuccess}
}

// Reset drops the challenge back to its initial state and invalidates the
// cached flag. The one way to clear the attempted latch.
func (u *UploadService) Reset(ctx context.Context) {
	st := u.State
	st.mu.Lock()
	defer st.mu.Unlock()

	u.window.Stop()
	u.challenge = domain.UploadChallenge{}
	u.flag = ""

	st.log.InfoContext(ctx, "upload system reset")
}

// Status reports the live challenge state.
func (u *UploadService) Status() domain.UploadChallenge {
	st := u.State
	st.mu.Lock()
	defer st.mu.Unlock()
	return u.challenge
}

// closeWindowLocked ends the window and invalidates the cached flag so the
// next verification derives a fresh one. The attempted latch is left alone.
func (u *UploadService) closeWindowLocked() {
	u.window.Stop()
	u.challenge.Unlocked = false
	u.challenge.WindowExpiry = nil
	u.flag = ""
}

func (u *UploadService) onWindowExpire() {
	st := u.State
	st.mu.Lock()
	defer st.mu.Unlock()
	u.closeWindowLocked()
}
