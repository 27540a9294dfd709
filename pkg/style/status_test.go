package style

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderTargetPlain(t *testing.T) {
	r := NewRenderer(true)

	tests := []struct {
		name   string
		status TargetStatus
		want   string
	}{
		{
			name: "success",
			status: TargetStatus{
				Host: "pi1", Address: "pi@pi1", Status: StatusSuccess,
				Videos: 2, Duration: 1500 * time.Millisecond,
			},
			want: " OK      pi1 (pi@pi1) 2 videos in 1.5s",
		},
		{
			name: "single video",
			status: TargetStatus{
				Host: "pi2", Address: "admin@pi2:2222", Status: StatusSuccess,
				Videos: 1, Duration: 2 * time.Second,
			},
			want: " OK      pi2 (admin@pi2:2222) 1 video in 2s",
		},
		{
			name: "failure",
			status: TargetStatus{
				Host: "pi3", Address: "pi@pi3", Status: StatusError,
				Err: stderrors.New("connection refused"),
			},
			want: " FAILED  pi3 (pi@pi3): connection refused",
		},
		{
			name: "planned",
			status: TargetStatus{
				Host: "pi4", Status: StatusPlanned, Videos: 0,
			},
			want: " PLANNED pi4 0 videos to sync",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.RenderTarget(tt.status))
		})
	}
}

func TestRenderTargetStyled(t *testing.T) {
	r := NewRenderer(false)
	out := r.RenderTarget(TargetStatus{Host: "pi1", Status: StatusError, Err: stderrors.New("boom")})
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "pi1")
	assert.Contains(t, out, "boom")
}

func TestRenderTargetFlagsEmptyPlayers(t *testing.T) {
	r := NewRenderer(false)

	out := r.RenderTarget(TargetStatus{Host: "pi4", Status: StatusPlanned})
	assert.Contains(t, out, WarningStyle.Render("0 videos to sync"))

	out = r.RenderTarget(TargetStatus{Host: "pi1", Status: StatusPlanned, Videos: 2})
	assert.Contains(t, out, MutedStyle.Render("2 videos to sync"))
}

func TestRenderSummaryPlain(t *testing.T) {
	r := NewRenderer(true)
	assert.Equal(t, "3 of 3 players provisioned", r.RenderSummary(3, 0))
	assert.Equal(t, "1 of 3 players failed", r.RenderSummary(3, 1))
}

func TestRenderError(t *testing.T) {
	assert.Contains(t, RenderError(stderrors.New("no input")), "Error: no input")
}

func TestIsPlainWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, IsPlain(nil))
}
