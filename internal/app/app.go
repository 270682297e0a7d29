package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/agentdeck/internal/attachment"
	"github.com/zhubert/agentdeck/internal/config"
	"github.com/zhubert/agentdeck/internal/conversation"
	"github.com/zhubert/agentdeck/internal/gateway"
	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/tabs"
	"github.com/zhubert/agentdeck/internal/ui"
)

// Focus represents which pane is focused
type Focus int

const (
	FocusMain Focus = iota // The active tab: chat or a config panel
	FocusSidebar
)

// String returns a human-readable name for the focus
func (f Focus) String() string {
	switch f {
	case FocusMain:
		return "Main"
	case FocusSidebar:
		return "Sidebar"
	default:
		return "Unknown"
	}
}

// Backend is what the TUI needs from the agent API.
type Backend interface {
	conversation.Sender
	ListActions(ctx context.Context) ([]gateway.Action, error)
	GetConfig(ctx context.Context) (gateway.GlobalConfig, error)
	GetAgentConfig(ctx context.Context, name string) (*gateway.AgentConfig, error)
	BaseURL() string
}

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	backend Backend
	version string

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	panel   *ui.Panel
	modal   *ui.Modal

	width  int
	height int
	focus  Focus

	tabs    *tabs.Store
	session *conversation.Session

	// Agent ids with a config request in flight
	loadingAgents map[string]bool
	loadingGlobal bool

	windowFocused bool
}

// New creates a new app model
func New(cfg *config.Config, backend Backend, version string) *Model {
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	m := &Model{
		config:  cfg,
		backend: backend,
		version: version,
		header:  ui.NewHeader(),
		footer:  ui.NewFooter(),
		sidebar: ui.NewSidebar(),
		chat:    ui.NewChat(),
		panel:   ui.NewPanel(),
		modal:   ui.NewModal(),
		focus:   FocusMain,
		tabs:    tabs.New(),
		session: conversation.NewSession(backend, conversation.Options{
			Greeting: cfg.GetGreetingEnabled(),
			BaseURL:  backend.BaseURL(),
		}),
		loadingAgents: make(map[string]bool),
		windowFocused: true,
	}

	m.sidebar.SetAgents(cfg.GetAgents())
	m.chat.SetTurns(m.session.Store().Turns())
	m.syncActiveTab()

	logger.WithComponent("App").Info("started", "version", version, "api", backend.BaseURL())
	return m
}

// Init starts loading the actions list.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.sidebar.SetActionsLoading(),
		loadActions(m.backend),
	)
}

// Focus returns the focused pane
func (m *Model) Focus() Focus {
	return m.focus
}

// Tabs returns the tab store
func (m *Model) Tabs() *tabs.Store {
	return m.tabs
}

// Session returns the chat session
func (m *Model) Session() *conversation.Session {
	return m.session
}

// setFocus moves focus and updates every component's focus state.
func (m *Model) setFocus(f Focus) {
	m.focus = f
	activeKind := m.activeKind()
	m.sidebar.SetFocused(f == FocusSidebar)
	m.chat.SetFocused(f == FocusMain && activeKind == tabs.KindChat)
	m.panel.SetFocused(f == FocusMain && activeKind != tabs.KindChat)
}

func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar {
		m.setFocus(FocusMain)
	} else {
		m.setFocus(FocusSidebar)
	}
}

func (m *Model) activeKind() tabs.Kind {
	if tab := m.tabs.ActiveTab(); tab != nil {
		return tab.Kind
	}
	return tabs.KindChat
}

// attachmentLimit is the configured per-file size limit.
func (m *Model) attachmentLimit() attachment.Limit {
	return attachment.Limit(m.config.GetMaxAttachmentBytes())
}

// hasReply reports whether the transcript holds a reply with a raw payload.
func (m *Model) hasReply() bool {
	turn, ok := m.session.Store().LastReply()
	return ok && turn.Raw != nil
}
