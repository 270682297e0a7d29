package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/agentdeck/internal/tabs"
	"github.com/zhubert/agentdeck/internal/ui"
)

// updateSizes recalculates and applies dimensions to all UI components
func (m *Model) updateSizes() {
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.sidebar.SetSize(ctx.SidebarWidth, ctx.ContentHeight)
	m.chat.SetSize(ctx.MainWidth, ctx.ContentHeight)
	m.panel.SetSize(ctx.MainWidth, ctx.ContentHeight)
}

// updateFooterContext feeds the footer the state its bindings depend on.
func (m *Model) updateFooterContext() {
	m.footer.SetContext(ui.FooterContext{
		SidebarFocused: m.focus == FocusSidebar,
		ActiveKind:     m.activeKind(),
		Sending:        m.session.Pending(),
		HasAttachments: m.chat.HasAttachments(),
		HasReply:       m.hasReply(),
	})
}

// View renders the app
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.ReportFocus = true
	v.WindowTitle = "agentdeck"

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the full screen, with any modal drawn over it.
func (m *Model) RenderToString() string {
	if m.modal.IsVisible() {
		return m.modal.View(m.width, m.height)
	}

	m.updateFooterContext()

	mainView := m.chat.View()
	if m.activeKind() != tabs.KindChat {
		mainView = m.panel.View()
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), mainView)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), panels, m.footer.View())
}
