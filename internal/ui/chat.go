package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/agentdeck/internal/attachment"
	"github.com/zhubert/agentdeck/internal/conversation"
	"github.com/zhubert/agentdeck/internal/keys"
)

// StopwatchTickMsg is sent to update the stopwatch display
type StopwatchTickMsg time.Time

const (
	assistantName = "Prometheus"

	emptyTitle = "Start a conversation"
	emptyBody  = "Ask Prometheus anything. It can help you with planning, execution, and complex tasks."

	inputPlaceholder   = "Type your message..."
	waitingPlaceholder = "Waiting for Prometheus..."
)

// thinkingVerbs rotate through the waiting indicator
var thinkingVerbs = []string{
	"Thinking",
	"Planning",
	"Reasoning",
	"Deliberating",
	"Reflecting",
	"Considering",
	"Analyzing",
	"Processing",
	"Formulating",
	"Orchestrating",
}

func randomThinkingVerb() string {
	return thinkingVerbs[rand.Intn(len(thinkingVerbs))]
}

// Chat is the chat tab: the transcript, pending attachments and the input.
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool

	turns       []conversation.Turn
	attachments []attachment.Attachment
	showDetails bool

	// transcript caches the rendered turns; the waiting indicator is
	// appended on every stopwatch tick without re-rendering markdown.
	transcript string

	waiting       bool
	waitStartTime time.Time
	waitingVerb   string
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = inputPlaceholder
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport: vp,
		input:    ti,
	}
	c.Refresh()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.layout()
	c.Refresh()
}

func (c *Chat) layout() {
	ctx := GetViewContext()

	chatPanelHeight := c.height - InputTotalHeight
	viewportHeight := max(ctx.InnerHeight(chatPanelHeight)-c.attachmentLines(), 1)

	c.viewport.SetWidth(ctx.InnerWidth(c.width))
	c.viewport.SetHeight(viewportHeight)
	c.input.SetWidth(max(ctx.InnerWidth(c.width)-InputPaddingWidth, 1))
}

func (c *Chat) attachmentLines() int {
	if len(c.attachments) == 0 {
		return 0
	}
	return 1
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused && !c.waiting {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// SetTurns replaces the transcript and scrolls to the newest turn
func (c *Chat) SetTurns(turns []conversation.Turn) {
	c.turns = turns
	c.Refresh()
}

// GetInput returns the current input text
func (c *Chat) GetInput() string {
	return c.input.Value()
}

// ClearInput clears the input field
func (c *Chat) ClearInput() {
	c.input.Reset()
}

// SetInput sets the input field value
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
}

// InsertNewline adds a line break at the cursor
func (c *Chat) InsertNewline() {
	c.input.InsertString("\n")
}

// AddAttachments appends files to the pending list
func (c *Chat) AddAttachments(atts ...attachment.Attachment) {
	c.attachments = append(c.attachments, atts...)
	c.layout()
	c.Refresh()
}

// ClearAttachments empties the pending list
func (c *Chat) ClearAttachments() {
	c.attachments = nil
	c.layout()
	c.Refresh()
}

// Attachments returns the pending attachments
func (c *Chat) Attachments() []attachment.Attachment {
	return c.attachments
}

// HasAttachments reports whether any files are pending
func (c *Chat) HasAttachments() bool {
	return len(c.attachments) > 0
}

// ToggleDetails shows or hides the breakdown of the latest reply
func (c *Chat) ToggleDetails() bool {
	c.showDetails = !c.showDetails
	c.Refresh()
	return c.showDetails
}

// ShowingDetails reports whether the reply breakdown is visible
func (c *Chat) ShowingDetails() bool {
	return c.showDetails
}

// SetWaiting switches the waiting indicator on or off. The input is
// disabled while waiting.
func (c *Chat) SetWaiting(waiting bool) {
	c.waiting = waiting
	if waiting {
		c.waitStartTime = time.Now()
		c.waitingVerb = randomThinkingVerb()
		c.input.Placeholder = waitingPlaceholder
		c.input.Blur()
	} else {
		c.input.Placeholder = inputPlaceholder
		if c.focused {
			c.input.Focus()
		}
	}
	c.updateContent()
}

// IsWaiting returns whether a reply is outstanding
func (c *Chat) IsWaiting() bool {
	return c.waiting
}

// StopwatchTick returns a command that sends a tick message after a delay
func StopwatchTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return StopwatchTickMsg(t)
	})
}

// formatElapsed formats a duration as a stopwatch string (e.g., "1.2s", "1:23")
func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// Refresh re-renders the transcript, e.g. after a theme change
func (c *Chat) Refresh() {
	c.transcript = c.renderTranscript()
	c.updateContent()
}

func (c *Chat) wrapWidth() int {
	if w := c.viewport.Width(); w > 0 {
		return w
	}
	return DefaultWrapWidth
}

func (c *Chat) renderEmptyState() string {
	return ChatEmptyTitleStyle.Render(emptyTitle) + "\n\n" +
		ChatEmptyBodyStyle.Width(c.wrapWidth()).Render(emptyBody)
}

func (c *Chat) renderTranscript() string {
	if len(c.turns) == 0 {
		return c.renderEmptyState()
	}

	lastReply := -1
	for i, t := range c.turns {
		if t.Role == conversation.RoleAssistant && t.Raw != nil {
			lastReply = i
		}
	}

	width := c.wrapWidth()
	var sb strings.Builder
	for i, t := range c.turns {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(renderTurn(t, width))
		if c.showDetails && i == lastReply {
			sb.WriteString("\n")
			sb.WriteString(RenderDetails(t.Raw, width))
		}
	}
	return sb.String()
}

// renderTurn renders one turn with its role header.
func renderTurn(t conversation.Turn, width int) string {
	var sb strings.Builder

	stamp := ""
	if !t.CreatedAt.IsZero() {
		stamp = " " + ChatTimestampStyle.Render(t.CreatedAt.Format("15:04"))
	}

	if t.Role == conversation.RoleUser {
		sb.WriteString(ChatUserStyle.Render("You:") + stamp)
		if t.Content != "" {
			sb.WriteString("\n")
			sb.WriteString(ChatMessageStyle.Width(width).Render(t.Content))
		}
		for _, a := range t.Attachments {
			sb.WriteString("\n")
			sb.WriteString(ChatAttachmentStyle.Render("📎 " + a.Name + " (" + attachment.FormatSize(a.Size) + ")"))
		}
		return sb.String()
	}

	sb.WriteString(ChatAssistantStyle.Render(assistantName+":") + stamp)
	if t.Raw != nil && t.Raw.Mode != "" {
		sb.WriteString(" " + ChatModeBadgeStyle.Render(t.Raw.Mode.String()))
	}
	sb.WriteString("\n")
	if t.IsError() {
		sb.WriteString(ChatErrorStyle.Width(width).Render(t.Content))
	} else {
		sb.WriteString(RenderMarkdown(t.Content, width))
	}
	return sb.String()
}

func (c *Chat) renderWaiting() string {
	elapsed := time.Since(c.waitStartTime)
	stopwatchStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	return ChatAssistantStyle.Render(assistantName+":") + "\n" +
		StatusLoadingStyle.Render(assistantName+" is "+strings.ToLower(c.waitingVerb)+"... ") +
		stopwatchStyle.Render(formatElapsed(elapsed))
}

func (c *Chat) updateContent() {
	content := c.transcript
	if c.waiting {
		content += "\n\n" + c.renderWaiting()
	}
	c.viewport.SetContent(content)
	c.viewport.GotoBottom()
}

func (c *Chat) renderAttachmentLine() string {
	names := make([]string, len(c.attachments))
	for i, a := range c.attachments {
		names[i] = a.Name + " (" + attachment.FormatSize(a.Size) + ")"
	}
	line := "📎 " + strings.Join(names, ", ")
	return ChatAttachmentStyle.MaxWidth(c.viewport.Width()).Render(line)
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	switch msg.(type) {
	case StopwatchTickMsg:
		if c.waiting {
			c.updateContent()
			return c, StopwatchTick()
		}
		return c, nil
	}

	if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey {
		if !c.focused {
			return c, nil
		}
		switch keyMsg.String() {
		case keys.PgUp, keys.PgDown, keys.Home, keys.End, "ctrl+up", "ctrl+down":
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}
		if c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	// Non-key events (mouse wheel, paste) go to the viewport, and pastes
	// also to the input when it accepts text.
	var cmds []tea.Cmd
	if _, isPaste := msg.(tea.PasteMsg); isPaste && c.focused && !c.waiting {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	body := c.viewport.View()
	if len(c.attachments) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, body, c.renderAttachmentLine())
	}

	chatPanelHeight := c.height - InputTotalHeight
	chatPanel := panelStyle.Width(c.width).Height(chatPanelHeight).Render(body)

	inputStyle := ChatInputStyle
	if c.focused && !c.waiting {
		inputStyle = ChatInputFocusedStyle
	}
	inputArea := inputStyle.Width(c.width).Render(c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, chatPanel, inputArea)
}
