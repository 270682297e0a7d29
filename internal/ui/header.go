package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/agentdeck/internal/tabs"
)

const (
	headerTitle = " agentdeck "

	// MaxTabTitleWidth truncates long tab titles such as agent names
	MaxTabTitleWidth = 24

	overflowLeft  = "‹ "
	overflowRight = " ›"
	closeMarker   = " ×"
)

// Header is the top bar: the application title followed by the tab bar.
type Header struct {
	width int
	tabs  []tabs.Info
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetTabs replaces the tabs shown in the bar
func (h *Header) SetTabs(infos []tabs.Info) {
	h.tabs = infos
}

// View renders the header
func (h *Header) View() string {
	title := h.renderGradient(headerTitle)
	avail := h.width - runewidth.StringWidth(headerTitle)
	if avail <= 0 {
		return ansi.Truncate(title, h.width, "")
	}

	bar := h.renderTabs(avail)
	pad := max(avail-lipgloss.Width(bar), 0)
	return title + bar + strings.Repeat(" ", pad)
}

// tabLabel is the unstyled text of one tab.
func tabLabel(info tabs.Info) string {
	label := ansi.Truncate(info.Title, MaxTabTitleWidth, "…")
	if info.Closable {
		label += closeMarker
	}
	return label
}

// renderTabs lays out as many tabs as fit in avail columns, keeping the
// active tab visible and marking hidden tabs on either side.
func (h *Header) renderTabs(avail int) string {
	if len(h.tabs) == 0 {
		return ""
	}

	rendered := make([]string, len(h.tabs))
	widths := make([]int, len(h.tabs))
	total := 0
	active := 0
	for i, info := range h.tabs {
		style := TabStyle
		if info.Active {
			style = TabActiveStyle
			active = i
		}
		rendered[i] = style.Render(tabLabel(info))
		widths[i] = lipgloss.Width(rendered[i])
		total += widths[i]
	}
	if total <= avail {
		return strings.Join(rendered, "")
	}

	hints := runewidth.StringWidth(overflowLeft) + runewidth.StringWidth(overflowRight)
	lo, hi := active, active+1
	used := widths[active]
	for {
		grew := false
		if hi < len(h.tabs) && used+widths[hi]+hints <= avail {
			used += widths[hi]
			hi++
			grew = true
		}
		if lo > 0 && used+widths[lo-1]+hints <= avail {
			lo--
			used += widths[lo]
			grew = true
		}
		if !grew {
			break
		}
	}

	var b strings.Builder
	if lo > 0 {
		b.WriteString(TabOverflowHintStyle.Render(overflowLeft))
	}
	for i := lo; i < hi; i++ {
		b.WriteString(rendered[i])
	}
	if hi < len(h.tabs) {
		b.WriteString(TabOverflowHintStyle.Render(overflowRight))
	}
	return ansi.Truncate(b.String(), avail, "")
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		_, _ = fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders content on a background fading from the theme's
// primary color to its background color.
func (h *Header) renderGradient(content string) string {
	if content == "" {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Foreground(textColor).
			Bold(true)
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
