package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/agentdeck/internal/config"
	"github.com/zhubert/agentdeck/internal/gateway"
	"github.com/zhubert/agentdeck/internal/keys"
	"github.com/zhubert/agentdeck/internal/logger"
)

const (
	actionsErrorText = "Unable to load actions. Backend may be offline."
	actionsEmptyText = "No actions available"
)

// SidebarItemKind distinguishes agents from actions in the sidebar.
type SidebarItemKind int

const (
	ItemAgent SidebarItemKind = iota
	ItemAction
)

// SidebarItem is one selectable row.
type SidebarItem struct {
	Kind   SidebarItemKind
	Agent  config.AgentRef // Only valid when Kind == ItemAgent
	Action gateway.Action  // Only valid when Kind == ItemAction
}

// ActionsState is the load state of the actions section.
type ActionsState int

const (
	ActionsLoading ActionsState = iota
	ActionsLoaded
	ActionsFailed
)

// Sidebar lists the configured agents and the actions the backend offers.
type Sidebar struct {
	width   int
	height  int
	focused bool

	agents       []config.AgentRef
	actions      []gateway.Action
	actionsState ActionsState
	expanded     map[string]bool // action names with details open

	items        []SidebarItem
	selectedIdx  int
	scrollOffset int

	spinner spinner.Model
}

// NewSidebar creates a new sidebar with the actions section loading.
func NewSidebar() *Sidebar {
	return &Sidebar{
		expanded: make(map[string]bool),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetAgents replaces the agent list. The main agent is listed first.
func (s *Sidebar) SetAgents(agents []config.AgentRef) {
	s.agents = s.agents[:0]
	for _, a := range agents {
		if a.Main {
			s.agents = append(s.agents, a)
		}
	}
	for _, a := range agents {
		if !a.Main {
			s.agents = append(s.agents, a)
		}
	}
	s.rebuildItems()
}

// SetActionsLoading marks the actions section as loading and starts the spinner.
func (s *Sidebar) SetActionsLoading() tea.Cmd {
	s.actionsState = ActionsLoading
	s.rebuildItems()
	return s.spinner.Tick
}

// SetActions stores the result of an actions load. A non-nil err switches
// the section to its error state and drops any previous list.
func (s *Sidebar) SetActions(actions []gateway.Action, err error) {
	if err != nil {
		logger.WithComponent("Sidebar").Warn("actions unavailable", "error", err)
		s.actionsState = ActionsFailed
		s.actions = nil
	} else {
		s.actionsState = ActionsLoaded
		s.actions = actions
	}
	s.rebuildItems()
}

// ActionsState returns the load state of the actions section.
func (s *Sidebar) ActionsState() ActionsState {
	return s.actionsState
}

// Actions returns the loaded actions.
func (s *Sidebar) Actions() []gateway.Action {
	return s.actions
}

func (s *Sidebar) rebuildItems() {
	s.items = s.items[:0]
	for _, a := range s.agents {
		s.items = append(s.items, SidebarItem{Kind: ItemAgent, Agent: a})
	}
	for _, a := range s.actions {
		s.items = append(s.items, SidebarItem{Kind: ItemAction, Action: a})
	}
	if s.selectedIdx >= len(s.items) {
		s.selectedIdx = max(len(s.items)-1, 0)
	}
}

// Selected returns the highlighted item.
func (s *Sidebar) Selected() (SidebarItem, bool) {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.items) {
		return SidebarItem{}, false
	}
	return s.items[s.selectedIdx], true
}

// ToggleExpanded opens or closes the details of the selected action.
// Actions without details and agents are ignored.
func (s *Sidebar) ToggleExpanded() bool {
	item, ok := s.Selected()
	if !ok || item.Kind != ItemAction || !item.Action.HasDetails() {
		return false
	}
	name := item.Action.Name
	s.expanded[name] = !s.expanded[name]
	return true
}

// IsExpanded reports whether the action's details are open.
func (s *Sidebar) IsExpanded(name string) bool {
	return s.expanded[name]
}

// Update handles spinner ticks and, when focused, navigation keys.
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.actionsState != ActionsLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if !s.focused || len(s.items) == 0 {
			return s, nil
		}
		switch msg.String() {
		case keys.Up, "k":
			if s.selectedIdx > 0 {
				s.selectedIdx--
			}
		case keys.Down, "j":
			if s.selectedIdx < len(s.items)-1 {
				s.selectedIdx++
			}
		case keys.Home:
			s.selectedIdx = 0
		case keys.End:
			s.selectedIdx = len(s.items) - 1
		}
	}
	return s, nil
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := ctx.InnerWidth(s.width)
	innerHeight := ctx.InnerHeight(s.height)

	var allLines []string
	selectedStartLine := 0
	itemIdx := 0

	addRendered := func(rendered string) {
		allLines = append(allLines, strings.Split(rendered, "\n")...)
	}

	addRendered(SidebarSectionStyle.Render("Agents"))
	for _, a := range s.agents {
		label := "  " + a.Name
		if a.Main {
			label = "★ " + a.Name
		}
		itemStyle := SidebarItemStyle.Width(innerWidth)
		if itemIdx == s.selectedIdx {
			itemStyle = SidebarSelectedStyle.Width(innerWidth)
			selectedStartLine = len(allLines)
		}
		addRendered(itemStyle.Render(ansi.Truncate(label, max(innerWidth-2, 1), "…")))
		if a.Description != "" {
			addRendered(SidebarDetailStyle.Width(innerWidth).Render(a.Description))
		}
		itemIdx++
	}

	allLines = append(allLines, "")
	addRendered(SidebarSectionStyle.Render("Actions"))

	muted := lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true).Padding(0, 1).Width(innerWidth)
	switch s.actionsState {
	case ActionsLoading:
		addRendered(muted.Render(s.spinner.View() + " Loading actions..."))
	case ActionsFailed:
		addRendered(lipgloss.NewStyle().Foreground(ColorError).Padding(0, 1).Width(innerWidth).Render(actionsErrorText))
	default:
		if len(s.actions) == 0 {
			addRendered(muted.Render(actionsEmptyText))
		}
	}

	for _, a := range s.actions {
		marker := "  "
		if a.HasDetails() {
			marker = "▸ "
			if s.expanded[a.Name] {
				marker = "▾ "
			}
		}
		itemStyle := SidebarItemStyle.Width(innerWidth)
		if itemIdx == s.selectedIdx {
			itemStyle = SidebarSelectedStyle.Width(innerWidth)
			selectedStartLine = len(allLines)
		}
		addRendered(itemStyle.Render(ansi.Truncate(marker+a.Name, max(innerWidth-2, 1), "…")))
		if s.expanded[a.Name] {
			for _, line := range actionDetailLines(a) {
				addRendered(SidebarDetailStyle.Width(innerWidth).Render(line))
			}
		}
		itemIdx++
	}

	if selectedStartLine < s.scrollOffset {
		s.scrollOffset = selectedStartLine
	} else if selectedStartLine >= s.scrollOffset+innerHeight {
		s.scrollOffset = selectedStartLine - innerHeight + 1
	}
	maxScroll := max(len(allLines)-innerHeight, 0)
	s.scrollOffset = min(max(s.scrollOffset, 0), maxScroll)

	if s.scrollOffset > 0 {
		allLines = allLines[s.scrollOffset:]
	}
	if len(allLines) > innerHeight {
		allLines = allLines[:innerHeight]
	}

	return style.
		Width(s.width).
		Height(s.height).
		Render(strings.Join(allLines, "\n"))
}

// actionDetailLines is the expanded description of an action.
func actionDetailLines(a gateway.Action) []string {
	var lines []string
	if a.Description != "" {
		lines = append(lines, a.Description)
	}
	if a.Variable != "" {
		lines = append(lines, "Variable: "+a.Variable)
	}
	switch {
	case len(a.Arguments) > 0:
		lines = append(lines, "Arguments:")
		for _, arg := range a.Arguments {
			lines = append(lines, fmt.Sprintf("  %s: %s", arg.Name, arg.Type))
		}
	case a.RawSignature != "":
		lines = append(lines, "Signature: "+a.RawSignature)
	}
	return lines
}
