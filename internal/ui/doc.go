// Package ui provides the visual components of the agentdeck TUI.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────┐
//	│ Tab bar (1 line)                                    │
//	├──────────────┬──────────────────────────────────────┤
//	│              │                                      │
//	│  Sidebar     │  Active tab: chat transcript + input │
//	│  agents      │  or a read-only                      │
//	│  actions     │  panel (config, prompt, actions)     │
//	├──────────────┴──────────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext holds the layout arithmetic. Header renders the tab bar from a
// tabs.Info snapshot. Sidebar lists the agents from configuration and the
// actions fetched from the backend. Chat renders the transcript of a
// conversation.Store and owns the message input. Panel renders every other
// tab kind from a PanelContent: agent config, prompt, global config and the
// actions list. Footer shows the key bindings for the current focus and
// transient flash messages.
//
// Modal dialogs (attach file, settings, help) live in the modals
// subpackage; the Modal wrapper here holds the active one and centers it.
//
// Components never call the backend; the app package feeds them data.
//
// # Styles
//
// Styles live in styles.go and are regenerated from the active Theme by
// SetTheme. The modals subpackage receives its styles through
// RefreshModalStyles.
package ui
