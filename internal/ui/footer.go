package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/agentdeck/internal/tabs"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType is the severity of a flash message
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// DefaultFlashDuration is how long a flash message stays in the footer
const DefaultFlashDuration = 4 * time.Second

// flashTickInterval is how often an active flash is checked for expiry
const flashTickInterval = 500 * time.Millisecond

// FlashMessage is a transient message shown in place of the key bindings
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has been shown long enough
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) >= f.Duration
}

// FlashTickMsg drives flash expiry
type FlashTickMsg time.Time

// FlashTick returns a command that sends a FlashTickMsg
func FlashTick() tea.Cmd {
	return tea.Tick(flashTickInterval, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// FooterContext is the application state the footer picks its bindings from
type FooterContext struct {
	SidebarFocused bool
	ActiveKind     tabs.Kind
	Sending        bool
	HasAttachments bool
	HasReply       bool
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width        int
	bindings     []KeyBinding
	context      FooterContext
	flashMessage *FlashMessage
	// flashQueue holds messages waiting for the current flash to expire.
	flashQueue []FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{
		bindings: []KeyBinding{
			{Key: "tab", Desc: "switch pane"},
			{Key: "ctrl+n/p", Desc: "tabs"},
			{Key: "ctrl+t", Desc: "theme"},
			{Key: "ctrl+/", Desc: "help"},
			{Key: "ctrl+c", Desc: "quit"},
		},
		context: FooterContext{ActiveKind: tabs.KindChat},
	}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(c FooterContext) {
	f.context = c
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetBindings replaces the fallback keybindings
func (f *Footer) SetBindings(bindings []KeyBinding) {
	f.bindings = bindings
}

// SetFlash shows a flash message for DefaultFlashDuration
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

// SetFlashWithDuration shows a flash message for duration
func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, duration time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      flashType,
		CreatedAt: time.Now(),
		Duration:  duration,
	}
}

// QueueFlash shows a flash message once every earlier queued message has
// had its full duration. With nothing showing it appears at once.
func (f *Footer) QueueFlash(text string, flashType FlashType) {
	if f.flashMessage == nil {
		f.SetFlash(text, flashType)
		return
	}
	f.flashQueue = append(f.flashQueue, FlashMessage{
		Text:     text,
		Type:     flashType,
		Duration: DefaultFlashDuration,
	})
}

// Flashes returns the text of the showing flash followed by the queued ones.
func (f *Footer) Flashes() []string {
	var out []string
	if f.flashMessage != nil {
		out = append(out, f.flashMessage.Text)
	}
	for _, q := range f.flashQueue {
		out = append(out, q.Text)
	}
	return out
}

// ClearFlash removes the flash message and anything queued behind it
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
	f.flashQueue = nil
}

// HasFlash reports whether a flash message is showing
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired removes an expired flash, promoting the next queued one,
// and reports whether it did
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage == nil || !f.flashMessage.IsExpired() {
		return false
	}
	f.flashMessage = nil
	if len(f.flashQueue) > 0 {
		next := f.flashQueue[0]
		f.flashQueue = f.flashQueue[1:]
		next.CreatedAt = time.Now()
		f.flashMessage = &next
	}
	return true
}

// Bindings returns the key bindings for the current context
func (f *Footer) Bindings() []KeyBinding {
	c := f.context
	switch {
	case c.SidebarFocused:
		return []KeyBinding{
			{Key: "↑/↓", Desc: "navigate"},
			{Key: "enter", Desc: "open"},
			{Key: "ctrl+r", Desc: "refresh actions"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "?", Desc: "help"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	case c.ActiveKind == tabs.KindChat && c.Sending:
		return []KeyBinding{
			{Key: "pgup/dn", Desc: "scroll"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	case c.ActiveKind == tabs.KindChat:
		bindings := []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "ctrl+o", Desc: "attach"},
		}
		if c.HasAttachments {
			bindings = append(bindings, KeyBinding{Key: "ctrl+x", Desc: "clear files"})
		}
		if c.HasReply {
			bindings = append(bindings,
				KeyBinding{Key: "ctrl+e", Desc: "details"},
				KeyBinding{Key: "ctrl+y", Desc: "copy json"},
			)
		}
		return append(bindings,
			KeyBinding{Key: "tab", Desc: "switch pane"},
			KeyBinding{Key: "pgup/dn", Desc: "scroll"},
		)
	case c.ActiveKind == tabs.KindAgentConfig:
		return []KeyBinding{
			{Key: "↑/↓", Desc: "scroll"},
			{Key: "p", Desc: "prompt"},
			{Key: "ctrl+w", Desc: "close tab"},
			{Key: "ctrl+n/p", Desc: "tabs"},
			{Key: "tab", Desc: "switch pane"},
		}
	case c.ActiveKind != "":
		return []KeyBinding{
			{Key: "↑/↓", Desc: "scroll"},
			{Key: "ctrl+w", Desc: "close tab"},
			{Key: "ctrl+n/p", Desc: "tabs"},
			{Key: "tab", Desc: "switch pane"},
		}
	}
	return f.bindings
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		return FooterStyle.Width(f.width).Render(f.renderFlash())
	}

	var parts []string
	for _, b := range f.Bindings() {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")
	if f.width > 2 {
		content = ansi.Truncate(content, f.width-2, "…")
	}
	return FooterStyle.Width(f.width).Render(content)
}

func (f *Footer) renderFlash() string {
	var icon string
	var color = ColorInfo
	switch f.flashMessage.Type {
	case FlashError:
		icon, color = "✕", ColorError
	case FlashWarning:
		icon, color = "⚠", ColorWarning
	case FlashSuccess:
		icon, color = "✓", ColorSuccess
	default:
		icon = "ℹ"
	}
	text := lipgloss.NewStyle().Foreground(color).Render(icon + " " + f.flashMessage.Text)
	if f.width > 2 {
		text = ansi.Truncate(text, f.width-2, "…")
	}
	return text
}
