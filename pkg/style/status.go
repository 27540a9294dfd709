package style

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// Status of one player in a run.
type Status string

const (
	StatusSuccess Status = "success" // Provisioned
	StatusError   Status = "error"   // Provisioning failed
	StatusPlanned Status = "planned" // Dry run, nothing sent
)

var badges = map[Status]string{
	StatusSuccess: "OK",
	StatusError:   "FAILED",
	StatusPlanned: "PLANNED",
}

// StatusStyle returns the badge style for a status.
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite)
	case StatusError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case StatusPlanned:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// TargetStatus is what is shown for one player.
type TargetStatus struct {
	Host     string
	Address  string
	Status   Status
	Videos   int
	Duration time.Duration
	Err      error
}

// Renderer formats run output, with or without terminal styling.
type Renderer struct {
	plain bool
}

// NewRenderer creates a renderer. Plain renderers emit no escape codes.
func NewRenderer(plain bool) *Renderer {
	return &Renderer{plain: plain}
}

func (r *Renderer) badge(status Status) string {
	text := fmt.Sprintf(" %-7s ", badges[status])
	if r.plain {
		return text
	}
	return StatusStyle(status).Sprint(text)
}

func (r *Renderer) host(s string) string {
	if r.plain {
		return s
	}
	return HostStyle.Render(s)
}

func (r *Renderer) muted(s string) string {
	if r.plain {
		return s
	}
	return MutedStyle.Render(s)
}

// videos renders a video count. A player with no videos usually means its
// patterns matched nothing, so it is flagged.
func (r *Renderer) videos(n int, suffix string) string {
	text := pluralVideos(n) + suffix
	if r.plain {
		return text
	}
	if n == 0 {
		return WarningStyle.Render(text)
	}
	return MutedStyle.Render(text)
}

// RenderTarget renders one status line for a player.
func (r *Renderer) RenderTarget(ts TargetStatus) string {
	var b strings.Builder
	b.WriteString(r.badge(ts.Status))
	b.WriteString(r.host(ts.Host))
	if ts.Address != "" {
		b.WriteString(" " + r.muted("("+ts.Address+")"))
	}

	switch ts.Status {
	case StatusError:
		if ts.Err != nil {
			b.WriteString(": " + ts.Err.Error())
		}
	case StatusPlanned:
		b.WriteString(" " + r.videos(ts.Videos, " to sync"))
	default:
		b.WriteString(" " + r.videos(ts.Videos, " in "+ts.Duration.Round(time.Millisecond).String()))
	}
	return b.String()
}

// RenderSummary renders the closing line of a run.
func (r *Renderer) RenderSummary(total, failed int) string {
	if failed == 0 {
		msg := fmt.Sprintf("%d of %d players provisioned", total, total)
		if r.plain {
			return msg
		}
		return SuccessStyle.Render(msg)
	}
	msg := fmt.Sprintf("%d of %d players failed", failed, total)
	if r.plain {
		return msg
	}
	return ErrorStyle.Render(msg)
}

func pluralVideos(n int) string {
	if n == 1 {
		return "1 video"
	}
	return fmt.Sprintf("%d videos", n)
}
