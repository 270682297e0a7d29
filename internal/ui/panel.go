package ui

import (
	"bytes"
	"encoding/json"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/agentdeck/internal/gateway"
	"github.com/zhubert/agentdeck/internal/keys"
)

const (
	agentConfigNote = "Note: Agent configuration is read-only. The API does not yet support saving changes."
	promptNote      = "Note: Prompt editing is read-only. The API does not yet support saving changes."
	noPromptContent = "No prompt content available"
	configErrorText = "Unable to load configuration. Backend may be offline."
	unknownTabText  = "Unknown tab type"
)

// PanelContent is the body of a non-chat tab.
type PanelContent interface {
	Render(width int) string
}

// AgentConfigContent is an agent-config tab. Err is set when the load
// failed; the tab still opens and shows it.
type AgentConfigContent struct {
	Name    string
	Config  *gateway.AgentConfig
	Err     error
	Loading bool
}

// Render implements PanelContent
func (a AgentConfigContent) Render(width int) string {
	var sb strings.Builder
	sb.WriteString(PanelTitleStyle.Render(panelName(a.Name, "Agent Configuration")))
	sb.WriteString("\n\n")

	switch {
	case a.Err != nil:
		sb.WriteString(StatusErrorStyle.Width(width).Render(a.Err.Error()))
		return sb.String()
	case a.Loading || a.Config == nil:
		sb.WriteString(StatusLoadingStyle.Render("Loading configuration..."))
		return sb.String()
	}

	cfg := a.Config
	sb.WriteString(section("Model Config"))
	sb.WriteString(field("Model", cfg.ModelConfig.NameText()))
	sb.WriteString(field("Temperature", cfg.ModelConfig.TemperatureText()))
	sb.WriteString(field("Max Tokens", cfg.ModelConfig.MaxTokensText()))

	sb.WriteString("\n")
	sb.WriteString(section("Prompt File"))
	promptFile := cfg.Prompt
	if promptFile == "" {
		promptFile = "N/A"
	}
	sb.WriteString(PanelValueStyle.Width(width).Render(promptFile))
	sb.WriteString("\n\n")

	sb.WriteString(section("Prompt Content"))
	if strings.TrimSpace(cfg.PromptContent) == "" {
		sb.WriteString(PanelNoteStyle.Render(noPromptContent))
	} else {
		sb.WriteString(RenderMarkdown(cfg.PromptContent, width))
	}
	sb.WriteString("\n")

	if cfg.HasResponseFormat() {
		sb.WriteString("\n")
		sb.WriteString(section("Response Format"))
		sb.WriteString(HighlightJSON(indentRaw(cfg.ResponseFormat)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(PanelNoteStyle.Width(width).Render(agentConfigNote))
	return sb.String()
}

// PromptContent is a prompt tab showing an agent's prompt text.
type PromptContent struct {
	Name           string
	Prompt         string
	ResponseFormat json.RawMessage
}

// Render implements PanelContent
func (p PromptContent) Render(width int) string {
	var sb strings.Builder
	sb.WriteString(PanelTitleStyle.Render(panelName(p.Name, "Prompt")))
	sb.WriteString("\n\n")

	if strings.TrimSpace(p.Prompt) == "" {
		sb.WriteString(PanelNoteStyle.Render(noPromptContent))
	} else {
		sb.WriteString(RenderMarkdown(p.Prompt, width))
	}
	sb.WriteString("\n")

	if len(p.ResponseFormat) > 0 && string(p.ResponseFormat) != "null" {
		sb.WriteString("\n")
		sb.WriteString(section("Output Structure"))
		sb.WriteString(HighlightJSON(indentRaw(p.ResponseFormat)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(PanelNoteStyle.Width(width).Render(promptNote))
	return sb.String()
}

// GlobalConfigContent is the global-config tab.
type GlobalConfigContent struct {
	Config  *gateway.GlobalConfig
	Err     error
	Loading bool
}

// Render implements PanelContent
func (g GlobalConfigContent) Render(width int) string {
	var sb strings.Builder
	sb.WriteString(PanelTitleStyle.Render("Global Configuration"))
	sb.WriteString("\n\n")

	switch {
	case g.Err != nil:
		sb.WriteString(StatusErrorStyle.Width(width).Render(configErrorText))
		sb.WriteString("\n\n")
		sb.WriteString(PanelNoteStyle.Width(width).Render(g.Err.Error()))
		return sb.String()
	case g.Loading || g.Config == nil:
		sb.WriteString(StatusLoadingStyle.Render("Loading configuration..."))
		return sb.String()
	}

	sb.WriteString(section("Global Model Config"))
	if g.Config.Model == nil {
		sb.WriteString(PanelNoteStyle.Render("Not set"))
		sb.WriteString("\n")
	} else {
		sb.WriteString(field("Model", g.Config.Model.NameText()))
		sb.WriteString(field("Temperature", g.Config.Model.TemperatureText()))
		sb.WriteString(field("Max Tokens", g.Config.Model.MaxTokensText()))
	}

	if g.Config.Agents != nil {
		for pair := g.Config.Agents.Oldest(); pair != nil; pair = pair.Next() {
			sb.WriteString("\n")
			sb.WriteString(section(pair.Key))
			sb.WriteString(HighlightJSON(indentRaw(pair.Value)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ActionsContent is the actions tab: every action with its details.
type ActionsContent struct {
	Actions []gateway.Action
	Err     error
	Loading bool
}

// Render implements PanelContent
func (a ActionsContent) Render(width int) string {
	var sb strings.Builder
	sb.WriteString(PanelTitleStyle.Render("Actions"))
	sb.WriteString("\n\n")

	switch {
	case a.Err != nil:
		sb.WriteString(StatusErrorStyle.Width(width).Render(actionsErrorText))
		return sb.String()
	case a.Loading:
		sb.WriteString(StatusLoadingStyle.Render("Loading actions..."))
		return sb.String()
	case len(a.Actions) == 0:
		sb.WriteString(PanelNoteStyle.Render(actionsEmptyText))
		return sb.String()
	}

	for i, action := range a.Actions {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(PanelLabelStyle.Render(action.Name))
		sb.WriteString("\n")
		for _, line := range actionDetailLines(action) {
			sb.WriteString(PanelValueStyle.Width(width).PaddingLeft(2).Render(line))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func panelName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func section(title string) string {
	return PanelLabelStyle.Render(title) + "\n"
}

func field(label, value string) string {
	return "  " + lipgloss.NewStyle().Foreground(ColorTextMuted).Render(label+": ") + PanelValueStyle.Render(value) + "\n"
}

// indentRaw pretty-prints raw JSON, returning it unchanged if it does not parse.
func indentRaw(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// Panel shows a PanelContent in a scrollable, bordered viewport.
type Panel struct {
	viewport viewport.Model
	content  PanelContent
	width    int
	height   int
	focused  bool
}

// NewPanel creates an empty panel
func NewPanel() *Panel {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return &Panel{viewport: vp}
}

// SetSize sets the panel dimensions
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
	ctx := GetViewContext()
	p.viewport.SetWidth(ctx.InnerWidth(width))
	p.viewport.SetHeight(max(ctx.InnerHeight(height), 1))
	p.Refresh()
}

// SetFocused sets the focus state
func (p *Panel) SetFocused(focused bool) {
	p.focused = focused
}

// SetContent shows c, scrolling to the top when the content changes kind
// or identity.
func (p *Panel) SetContent(c PanelContent) {
	reset := !sameContent(p.content, c)
	p.content = c
	p.Refresh()
	if reset {
		p.viewport.GotoTop()
	}
}

// Content returns the content being shown
func (p *Panel) Content() PanelContent {
	return p.content
}

// sameContent reports whether two contents describe the same tab, so a
// reload keeps the scroll position.
func sameContent(a, b PanelContent) bool {
	switch x := a.(type) {
	case AgentConfigContent:
		y, ok := b.(AgentConfigContent)
		return ok && x.Name == y.Name
	case PromptContent:
		y, ok := b.(PromptContent)
		return ok && x.Name == y.Name
	case GlobalConfigContent:
		_, ok := b.(GlobalConfigContent)
		return ok
	case ActionsContent:
		_, ok := b.(ActionsContent)
		return ok
	}
	return false
}

// Refresh re-renders the content, e.g. after a resize or theme change
func (p *Panel) Refresh() {
	width := p.viewport.Width()
	if width <= 0 {
		width = DefaultWrapWidth
	}
	if p.content == nil {
		p.viewport.SetContent(PanelNoteStyle.Render(unknownTabText))
		return
	}
	p.viewport.SetContent(p.content.Render(max(width-1, 1)))
}

// Update scrolls the panel
func (p *Panel) Update(msg tea.Msg) (*Panel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		if !p.focused {
			return p, nil
		}
		switch keyMsg.String() {
		case keys.Home:
			p.viewport.GotoTop()
			return p, nil
		case keys.End:
			p.viewport.GotoBottom()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the panel
func (p *Panel) View() string {
	style := PanelStyle
	if p.focused {
		style = PanelFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(p.viewport.View())
}
