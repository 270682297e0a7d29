package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/agentdeck/internal/keys"
	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/tabs"
	"github.com/zhubert/agentdeck/internal/ui"
	"github.com/zhubert/agentdeck/internal/ui/modals"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key             string                              // The key binding (e.g., "ctrl+g")
	DisplayKey      string                              // Display name in help; defaults to Key
	Description     string                              // Human-readable description
	Category        string                              // Section for help modal grouping
	RequiresSidebar bool                                // Must have the sidebar focused
	RequiresChat    bool                                // Must have the chat tab active
	Handler         func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition       func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation    = "Navigation"
	CategoryTabs          = "Tabs"
	CategoryChat          = "Chat"
	CategoryConfiguration = "Configuration"
	CategoryGeneral       = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryNavigation,
	CategoryTabs,
	CategoryChat,
	CategoryConfiguration,
	CategoryGeneral,
}

// ShortcutRegistry is the central registry of keyboard shortcuts. Entries
// appear in the help modal and can be run from it.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         keys.Tab,
		Description: "Switch between sidebar and main pane",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},

	// Tabs
	{
		Key:         keys.CtrlN,
		Description: "Next tab",
		Category:    CategoryTabs,
		Handler:     shortcutNextTab,
		Condition:   func(m *Model) bool { return m.tabs.Len() > 1 },
	},
	{
		Key:         keys.CtrlP,
		Description: "Previous tab",
		Category:    CategoryTabs,
		Handler:     shortcutPrevTab,
		Condition:   func(m *Model) bool { return m.tabs.Len() > 1 },
	},
	{
		Key:         keys.CtrlW,
		Description: "Close tab",
		Category:    CategoryTabs,
		Handler:     shortcutCloseTab,
		Condition:   func(m *Model) bool { return m.activeKind() != tabs.KindChat },
	},
	{
		Key:         "p",
		Description: "Open the agent's prompt",
		Category:    CategoryTabs,
		Handler:     shortcutOpenPrompt,
		Condition: func(m *Model) bool {
			return m.focus == FocusMain && m.activeKind() == tabs.KindAgentConfig
		},
	},

	// Chat
	{
		Key:          keys.CtrlO,
		Description:  "Attach files",
		Category:     CategoryChat,
		RequiresChat: true,
		Handler:      shortcutAttach,
		Condition:    func(m *Model) bool { return !m.session.Pending() },
	},
	{
		Key:          keys.CtrlV,
		Description:  "Paste image from clipboard",
		Category:     CategoryChat,
		RequiresChat: true,
		Handler:      shortcutPasteImage,
		Condition:    func(m *Model) bool { return !m.session.Pending() },
	},
	{
		Key:          keys.CtrlX,
		Description:  "Clear attachments",
		Category:     CategoryChat,
		RequiresChat: true,
		Handler:      shortcutClearAttachments,
		Condition:    func(m *Model) bool { return m.chat.HasAttachments() },
	},
	{
		Key:          keys.CtrlE,
		Description:  "Toggle reply details",
		Category:     CategoryChat,
		RequiresChat: true,
		Handler:      shortcutToggleDetails,
		Condition:    (*Model).hasReply,
	},
	{
		Key:          keys.CtrlY,
		Description:  "Copy reply JSON",
		Category:     CategoryChat,
		RequiresChat: true,
		Handler:      shortcutCopyJSON,
		Condition:    (*Model).hasReply,
	},

	// Configuration
	{
		Key:         keys.CtrlG,
		Description: "Show global configuration",
		Category:    CategoryConfiguration,
		Handler:     shortcutGlobalConfig,
	},
	{
		Key:         keys.CtrlL,
		Description: "Show actions",
		Category:    CategoryConfiguration,
		Handler:     shortcutActions,
	},
	{
		Key:         keys.CtrlR,
		Description: "Refresh",
		Category:    CategoryConfiguration,
		Handler:     shortcutRefresh,
	},
	{
		Key:         keys.CtrlT,
		Description: "Toggle light/dark theme",
		Category:    CategoryConfiguration,
		Handler:     shortcutToggleTheme,
	},
	{
		Key:         keys.CtrlS,
		Description: "Settings",
		Category:    CategoryConfiguration,
		Handler:     shortcutSettings,
	},

	// General
	// Note: help is handled specially in ExecuteShortcut to avoid init cycle
	{
		Key:         keys.CtrlC,
		Description: "Quit application",
		Category:    CategoryGeneral,
		Handler:     shortcutQuit,
	},
}

// helpShortcut is defined separately to avoid initialization cycle.
// It references ShortcutRegistry, so it can't be in the registry itself.
var helpShortcut = Shortcut{
	Key:         keys.CtrlSlash,
	DisplayKey:  "ctrl+/ or ?",
	Description: "Show this help",
	Category:    CategoryGeneral,
}

// DisplayOnlyShortcuts are shown in help but not executable from the help modal.
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "↑/↓ or j/k", Description: "Navigate agents and actions", Category: CategoryNavigation},
	{DisplayKey: "Enter", Description: "Open agent / Expand action", Category: CategoryNavigation},
	{DisplayKey: "Esc", Description: "Back to the main pane", Category: CategoryNavigation},
	{DisplayKey: "PgUp/PgDn", Description: "Scroll transcript or panel", Category: CategoryNavigation},

	{DisplayKey: "Enter", Description: "Send message", Category: CategoryChat},
	{DisplayKey: "shift+enter", Description: "New line", Category: CategoryChat},
}

// isShortcutApplicable checks if a shortcut is applicable given the current model state.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.focus != FocusSidebar {
		return false
	}
	if s.RequiresChat && m.activeKind() != tabs.KindChat {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// isHelpKey reports whether key opens the help modal. "?" only counts where
// it cannot be text.
func (m *Model) isHelpKey(key string) bool {
	if key == helpShortcut.Key {
		return true
	}
	return key == "?" && !m.chat.IsFocused()
}

// ExecuteShortcut finds and executes a shortcut by key.
// Returns (model, cmd, true) if the shortcut was found and executed.
// Returns (model, nil, false) if the shortcut was not found or guards failed,
// so the key can go on to the focused component.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	log := logger.WithComponent("Shortcut")

	if m.isHelpKey(key) {
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			log.Debug("guard failed", "key", key, "focus", m.focus.String(), "tab", m.activeKind())
			return m, nil, false
		}
		log.Debug("executing", "key", key)
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections generates help modal sections from shortcuts that are
// applicable in the current application state.
func (m *Model) getApplicableHelpSections(registry []Shortcut, displayOnly []Shortcut) []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)

	add := func(s Shortcut) {
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey,
			Desc: s.Description,
		})
	}

	for _, s := range registry {
		if m.isShortcutApplicable(s) {
			add(s)
		}
	}
	for _, s := range displayOnly {
		// Chat display-only entries only show on the chat tab
		if s.Category == CategoryChat && m.activeKind() != tabs.KindChat {
			continue
		}
		add(s)
	}

	var sections []modals.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts, ok := categories[cat]; ok && len(shortcuts) > 0 {
			sections = append(sections, modals.HelpSection{
				Title:     cat,
				Shortcuts: shortcuts,
			})
		}
	}
	return sections
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	m.toggleFocus()
	return m, nil
}

func shortcutNextTab(m *Model) (tea.Model, tea.Cmd) {
	m.nextTab()
	return m, nil
}

func shortcutPrevTab(m *Model) (tea.Model, tea.Cmd) {
	m.prevTab()
	return m, nil
}

func shortcutCloseTab(m *Model) (tea.Model, tea.Cmd) {
	return m, m.closeActiveTab()
}

func shortcutOpenPrompt(m *Model) (tea.Model, tea.Cmd) {
	return m, m.openPrompt()
}

func shortcutAttach(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewAttachState(m.attachmentLimit()))
	return m, nil
}

func shortcutPasteImage(m *Model) (tea.Model, tea.Cmd) {
	return m, pasteImage(false)
}

func shortcutClearAttachments(m *Model) (tea.Model, tea.Cmd) {
	m.chat.ClearAttachments()
	return m, m.ShowFlashInfo("Attachments cleared")
}

func shortcutToggleDetails(m *Model) (tea.Model, tea.Cmd) {
	m.chat.ToggleDetails()
	return m, nil
}

func shortcutCopyJSON(m *Model) (tea.Model, tea.Cmd) {
	raw, ok := rawReply(m.session)
	if !ok {
		return m, nil
	}
	return m, copyToClipboard("Reply JSON", raw)
}

func shortcutGlobalConfig(m *Model) (tea.Model, tea.Cmd) {
	return m, m.openGlobalConfig()
}

func shortcutActions(m *Model) (tea.Model, tea.Cmd) {
	return m, m.openActions()
}

func shortcutRefresh(m *Model) (tea.Model, tea.Cmd) {
	if m.focus == FocusSidebar {
		return m, m.refreshActions()
	}
	return m, m.refreshActiveTab()
}

func shortcutToggleTheme(m *Model) (tea.Model, tea.Cmd) {
	name := ui.ToggleTheme()
	m.applyTheme(name)
	return m, m.ShowFlashInfo("Theme: " + ui.BuiltinThemes[name].Name)
}

func shortcutSettings(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewSettingsState(
		themeOptions(),
		string(ui.CurrentThemeName()),
		m.config.GetNotificationsEnabled(),
		m.backend.BaseURL(),
	))
	return m, nil
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	allShortcuts := append(ShortcutRegistry[:len(ShortcutRegistry):len(ShortcutRegistry)], helpShortcut)
	sections := m.getApplicableHelpSections(allShortcuts, DisplayOnlyShortcuts)
	m.modal.Show(modals.NewHelpStateFromSections(sections))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}

// themeOptions lists the built-in themes for the settings modal.
func themeOptions() []modals.ThemeOption {
	names := ui.ThemeNames()
	opts := make([]modals.ThemeOption, len(names))
	for i, name := range names {
		opts[i] = modals.ThemeOption{Name: string(name), Label: ui.BuiltinThemes[name].Name}
	}
	return opts
}

// applyTheme records a theme change and re-renders themed content.
func (m *Model) applyTheme(name ui.ThemeName) {
	m.config.SetTheme(string(name))
	m.chat.Refresh()
	m.panel.Refresh()
}
