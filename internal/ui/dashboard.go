package ui

import (
	"errors"
	"fmt"
	"time"

	"erp/internal/analytics"
	"erp/internal/model"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// dashboardView shows the signed embed URL of the BI dashboard. The
// dashboard itself is rendered by Metabase in a browser.
type dashboardView struct {
	embed    analytics.Embed
	url      string
	err      error
	signedAt time.Time
}

func (d *dashboardView) sign(now time.Time) {
	d.url, d.err = d.embed.URL(now)
	d.signedAt = now
}

func (d *dashboardView) expiresAt() time.Time {
	ttl := d.embed.TTL
	if ttl <= 0 {
		ttl = analytics.DefaultTTL
	}
	return d.signedAt.Add(ttl)
}

func (d *dashboardView) expired(now time.Time) bool {
	return d.url != "" && !now.Before(d.expiresAt())
}

// copyCmd puts the URL on the system clipboard.
func (d *dashboardView) copyCmd() tea.Cmd {
	if d.url == "" {
		return nil
	}
	url := d.url
	return func() tea.Msg {
		if err := clipboardWrite(url); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to copy dashboard URL: %w", err)}
		}
		return model.InfoMsg{Text: "Dashboard URL copied to clipboard"}
	}
}

func (d *dashboardView) View(width, height int, now time.Time) string {
	if errors.Is(d.err, analytics.ErrNotConfigured) {
		return EmptyStateStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			"No dashboard configured.",
			"",
			"Set metabase.site_url, metabase.secret_key and metabase.dashboard_id",
			"in ~/.erp/config.yaml to embed the analytics dashboard.",
		))
	}
	if d.err != nil {
		return ErrorStyle.Render("Failed to sign dashboard URL: " + d.err.Error())
	}

	cardWidth := max(40, min(width-6, 110))
	status := HelpDescStyle.Render(fmt.Sprintf("Signed %s · expires %s",
		humanize.RelTime(d.signedAt, now, "ago", "from now"),
		humanize.RelTime(d.expiresAt(), now, "ago", "from now"),
	))
	if d.expired(now) {
		status = WarnStyle.Render("Token expired. Press r to sign a new URL.")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render(fmt.Sprintf("Metabase dashboard #%d", d.embed.DashboardID)),
		"",
		lipgloss.NewStyle().Width(cardWidth-6).Foreground(ColorText).Render(d.url),
		"",
		status,
		"",
		HelpDescStyle.Render("Open the URL in a browser to view charts. y copies it, r re-signs it."),
	)
	card := PanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}
