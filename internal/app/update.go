package app

import (
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/agentdeck/internal/attachment"
	"github.com/zhubert/agentdeck/internal/conversation"
	"github.com/zhubert/agentdeck/internal/keys"
	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/tabs"
	"github.com/zhubert/agentdeck/internal/ui"
	"github.com/zhubert/agentdeck/internal/ui/modals"
)

// Update handles messages. This is the core Bubble Tea update function that routes
// all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.FocusMsg:
		m.windowFocused = true
		return m, nil

	case tea.BlurMsg:
		m.windowFocused = false
		return m, nil

	case tea.KeyPressMsg:
		if result, cmd := m.handleKeyPress(msg); result != nil {
			return result, cmd
		}
		// Key not handled by handleKeyPress, let it fall through to focused pane
		return m.updateFocused(msg)

	case tea.PasteStartMsg:
		if m.canCompose() {
			return m, pasteImage(true)
		}
		return m, nil

	case ReplyMsg:
		return m.handleReply(msg)

	case ActionsLoadedMsg:
		return m.handleActionsLoaded(msg)

	case AgentConfigLoadedMsg:
		return m.handleAgentConfigLoaded(msg)

	case GlobalConfigLoadedMsg:
		return m.handleGlobalConfigLoaded(msg)

	case ClipboardImageMsg:
		return m.handleClipboardImage(msg)

	case ClipboardCopiedMsg:
		if msg.Err != nil {
			logger.WithComponent("App").Warn("clipboard write failed", "error", msg.Err)
			return m, m.ShowFlashError("Could not copy to clipboard")
		}
		return m, m.ShowFlashSuccess(msg.What + " copied")

	case modals.HelpShortcutTriggeredMsg:
		return m.handleHelpShortcutTriggered(msg)

	case ui.FlashTickMsg:
		return m, m.handleFlashTick()

	case spinner.TickMsg:
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		return m, cmd

	case ui.StopwatchTickMsg:
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		return m, cmd
	}

	if m.modal.IsVisible() {
		return m.forwardToModal(msg)
	}

	switch msg.(type) {
	case tea.MouseWheelMsg, tea.PasteMsg:
		return m.updateMain(msg)
	}
	return m, nil
}

// updateFocused hands a message to the focused pane.
func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus == FocusSidebar {
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		return m, cmd
	}
	return m.updateMain(msg)
}

// updateMain hands a message to the component showing the active tab.
func (m *Model) updateMain(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.activeKind() == tabs.KindChat {
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		return m, cmd
	}
	panel, cmd := m.panel.Update(msg)
	m.panel = panel
	return m, cmd
}

// handleKeyPress handles keyboard input.
// Returns (model, cmd) if the key was handled, or (nil, nil) if it should fall through
// to the focused pane.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	logger.WithComponent("App").Debug("key", "key", key, "focus", m.focus.String(), "modal", m.modal.IsVisible())

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}

	if key == keys.ShiftTab {
		m.toggleFocus()
		return m, nil
	}

	if m.focus == FocusSidebar {
		switch key {
		case keys.Escape:
			m.setFocus(FocusMain)
			return m, nil
		case keys.Enter:
			return m.handleSidebarEnter()
		}
		return nil, nil
	}

	if m.activeKind() == tabs.KindChat {
		switch key {
		case keys.Enter:
			return m, m.sendMessage()
		case keys.ShiftEnter, keys.AltEnter:
			if !m.session.Pending() {
				m.chat.InsertNewline()
			}
			return m, nil
		}
	}
	return nil, nil
}

// handleSidebarEnter opens the selected agent or expands the selected action.
func (m *Model) handleSidebarEnter() (tea.Model, tea.Cmd) {
	item, ok := m.sidebar.Selected()
	if !ok {
		return m, nil
	}
	switch item.Kind {
	case ui.ItemAgent:
		return m, m.openAgentConfig(item.Agent)
	case ui.ItemAction:
		m.sidebar.ToggleExpanded()
	}
	return m, nil
}

// canCompose reports whether the chat input accepts text and attachments.
func (m *Model) canCompose() bool {
	return m.focus == FocusMain && m.activeKind() == tabs.KindChat && !m.session.Pending()
}

// sendMessage admits the composed message and starts the exchange.
func (m *Model) sendMessage() tea.Cmd {
	req, err := m.session.Begin(m.chat.GetInput(), m.chat.Attachments())
	switch {
	case errors.Is(err, conversation.ErrEmpty):
		return nil
	case errors.Is(err, conversation.ErrInFlight):
		return m.ShowFlashWarning("Wait for the current reply")
	case err != nil:
		return m.ShowFlashError(err.Error())
	}

	m.chat.ClearInput()
	m.chat.ClearAttachments()
	m.chat.SetTurns(m.session.Store().Turns())
	m.chat.SetWaiting(true)
	logger.WithComponent("App").Info("sending", "chars", len(req.Text), "attachments", len(req.Attachments))
	return tea.Batch(exchange(m.session, req), ui.StopwatchTick())
}

func (m *Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	turn := m.session.Complete(msg.Reply)
	m.chat.SetWaiting(false)
	m.chat.SetTurns(m.session.Store().Turns())

	if m.config.GetNotificationsEnabled() && !m.windowFocused {
		return m, notifyReply(turn)
	}
	return m, nil
}

// addAttachments queues files that pass the type and size checks and warns
// about the rest.
func (m *Model) addAttachments(candidates ...attachment.Attachment) tea.Cmd {
	accepted, rejected := attachment.Filter(candidates, m.attachmentLimit())
	m.chat.AddAttachments(accepted...)

	if len(rejected) > 0 {
		logger.WithComponent("App").Info("attachments rejected", "count", len(rejected))
		var cmd tea.Cmd
		for _, r := range rejected {
			cmd = m.QueueFlashWarning(r.Reason)
		}
		return cmd
	}
	switch len(accepted) {
	case 0:
		return nil
	case 1:
		return m.ShowFlashSuccess("Attached " + accepted[0].Name)
	default:
		return m.ShowFlashSuccess(fmt.Sprintf("Attached %d files", len(accepted)))
	}
}

func (m *Model) handleClipboardImage(msg ClipboardImageMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Err != nil:
		logger.WithComponent("App").Warn("clipboard image read failed", "error", msg.Err)
		if msg.Quiet {
			return m, nil
		}
		return m, m.ShowFlashError("Could not read clipboard: " + msg.Err.Error())
	case !msg.Found:
		if msg.Quiet {
			return m, nil
		}
		return m, m.ShowFlashWarning("No image in clipboard")
	}
	return m, m.addAttachments(msg.Attachment)
}
