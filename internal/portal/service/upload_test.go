package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// knownFlag is the flag for the bucket containing unix second 1700000000
// (bucket 170000000, hash (170000000*31337) mod 9999 = 2278).
const knownFlag = "SHIPHY{upld_2278}"

func newUploadFixture(t *testing.T) (*fixture, *fakeClock) {
	t.Helper()
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	f := newFixture(t, fixtureConfig{gate: quietGate(), now: clock.Now})
	return f, clock
}

func TestUploadFlagDerivation(t *testing.T) {
	t.Parallel()

	f, _ := newUploadFixture(t)

	require.False(t, f.upload.VerifyFlag(context.Background(), "SHIPHY{upld_0000}"))
	require.False(t, f.upload.Status().Unlocked)

	require.True(t, f.upload.VerifyFlag(context.Background(), knownFlag))

	status := f.upload.Status()
	require.True(t, status.Unlocked)
	require.False(t, status.Attempted)
	require.NotNil(t, status.WindowExpiry)
}

func TestUploadHappyPath(t *testing.T) {
	t.Parallel()

	f, _ := newUploadFixture(t)
	ctx := context.Background()

	res := f.upload.CompleteUpload(ctx, "FTE_Candidates_2025.pdf", "application/pdf")
	require.False(t, res.Success)
	require.Equal(t, MessageUploadDisabled, res.Message)

	require.True(t, f.upload.VerifyFlag(ctx, knownFlag))

	res = f.upload.CompleteUpload(ctx, "FTE_Candidates_2025.pdf", "application/pdf")
	require.True(t, res.Success)
	require.Equal(t, MessageUploadSuccess, res.Message)

	status := f.upload.Status()
	require.False(t, status.Unlocked)
	require.True(t, status.Attempted)
	require.Nil(t, status.WindowExpiry)

	anns := f.security.SystemState().Announcements
	require.NotEmpty(t, anns)
	require.Contains(t, anns[0].Message, "FTE_Candidates_2025.pdf")

	// The latch survives the close; only reset clears it.
	res = f.upload.CompleteUpload(ctx, "FTE_Candidates_2025.pdf", "application/pdf")
	require.False(t, res.Success)
	require.Equal(t, MessageUploadWindowUsed, res.Message)
}

func TestUploadValidationBurnsAttempt(t *testing.T) {
	t.Parallel()

	f, _ := newUploadFixture(t)
	ctx := context.Background()

	require.True(t, f.upload.VerifyFlag(ctx, knownFlag))

	res := f.upload.CompleteUpload(ctx, "FTE_Candidates_2025.pdf", "text/plain")
	require.False(t, res.Success)
	require.Equal(t, MessageUploadNotPDF, res.Message)

	// The failed try already used the window.
	res = f.upload.CompleteUpload(ctx, "FTE_Candidates_2025.pdf", "application/pdf")
	require.Equal(t, MessageUploadWindowUsed, res.Message)

	// A fresh unlock re-arms the single attempt.
	require.True(t, f.upload.VerifyFlag(ctx, knownFlag))
	res = f.upload.CompleteUpload(ctx, "candidates.pdf", "application/pdf")
	require.False(t, res.Success)
	require.Equal(t, MessageUploadBadFilename, res.Message)

	require.True(t, f.upload.VerifyFlag(ctx, knownFlag))
	res = f.upload.CompleteUpload(ctx, "FTE_Candidates_2026.pdf", "application/pdf")
	require.True(t, res.Success)
}

func TestUploadWindowExpiry(t *testing.T) {
	t.Parallel()

	f, clock := newUploadFixture(t)
	ctx := context.Background()

	require.True(t, f.upload.VerifyFlag(ctx, knownFlag))
	clock.Advance(11 * time.Second)

	res := f.upload.CompleteUpload(ctx, "FTE_Candidates_2025.pdf", "application/pdf")
	require.False(t, res.Success)
	require.Equal(t, MessageUploadExpired, res.Message)

	status := f.upload.Status()
	require.False(t, status.Unlocked)
	require.Nil(t, status.WindowExpiry)
	require.False(t, status.Attempted, "an expired window is not a used attempt")
}

func TestUploadReset(t *testing.T) {
	t.Parallel()

	f, _ := newUploadFixture(t)
	ctx := context.Background()

	require.True(t, f.upload.VerifyFlag(ctx, knownFlag))
	res := f.upload.CompleteUpload(ctx, "FTE_Candidates_2025.pdf", "application/pdf")
	require.True(t, res.Success)

	f.upload.Reset(ctx)

	status := f.upload.Status()
	require.False(t, status.Unlocked)
	require.False(t, status.Attempted)
	require.Nil(t, status.WindowExpiry)

	res = f.upload.CompleteUpload(ctx, "FTE_Candidates_2025.pdf", "application/pdf")
	require.Equal(t, MessageUploadDisabled, res.Message)
}
