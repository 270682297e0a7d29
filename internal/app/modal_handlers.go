package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/agentdeck/internal/keys"
	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/ui"
	"github.com/zhubert/agentdeck/internal/ui/modals"
)

// handleModalKey routes modal key events to the handler for the modal type.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *modals.AttachState:
		return m.handleAttachModal(key, msg, s)
	case *modals.SettingsState:
		return m.handleSettingsModal(key, msg, s)
	case *modals.HelpState:
		return m.handleHelpModal(key, msg, s)
	}

	if key == keys.Escape {
		m.modal.Hide()
		return m, nil
	}
	return m.forwardToModal(msg)
}

func (m *Model) forwardToModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleAttachModal handles key events for the Attach Files modal.
func (m *Model) handleAttachModal(key string, msg tea.KeyPressMsg, state *modals.AttachState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		if err := state.Validate(); err != nil {
			m.modal.SetError(err.Error())
			return m, nil
		}
		candidates, err := state.Candidates()
		if err != nil {
			m.modal.SetError(err.Error())
			return m, nil
		}
		m.modal.Hide()
		return m, m.addAttachments(candidates...)
	}
	return m.forwardToModal(msg)
}

// handleSettingsModal applies the settings form on enter.
func (m *Model) handleSettingsModal(key string, msg tea.KeyPressMsg, state *modals.SettingsState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		if state.ThemeChanged() {
			ui.SetThemeByName(state.GetSelectedTheme())
			m.applyTheme(ui.CurrentThemeName())
		}
		m.config.SetNotificationsEnabled(state.NotificationsEnabled)
		logger.WithComponent("App").Info("settings applied",
			"theme", state.GetSelectedTheme(),
			"notifications", state.NotificationsEnabled,
		)
		m.modal.Hide()
		return m, m.ShowFlashSuccess("Settings saved")
	}
	return m.forwardToModal(msg)
}

// handleHelpModal runs the selected shortcut on enter.
func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	if state.IsFiltering() {
		return m.forwardToModal(msg)
	}
	switch key {
	case keys.Escape, "q":
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		shortcut := state.GetSelectedShortcut()
		if shortcut == nil {
			return m, nil
		}
		return m, func() tea.Msg {
			return modals.HelpShortcutTriggeredMsg{Key: shortcut.Key}
		}
	}
	return m.forwardToModal(msg)
}

// handleHelpShortcutTriggered closes the help modal and runs the shortcut
// picked in it. Help rows carry display keys, so they are mapped back to
// registry keys first.
func (m *Model) handleHelpShortcutTriggered(msg modals.HelpShortcutTriggeredMsg) (tea.Model, tea.Cmd) {
	m.modal.Hide()
	for _, s := range ShortcutRegistry {
		if s.Key == msg.Key || (s.DisplayKey != "" && s.DisplayKey == msg.Key) {
			result, cmd, _ := m.ExecuteShortcut(s.Key)
			return result, cmd
		}
	}
	return m, nil
}
