package modals

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/agentdeck/internal/attachment"
)

// AttachState asks for one or more local files to attach to the next message.
// Paths are comma separated; each must exist when the form is submitted.
// Type and size checks happen later so every rejected file gets a warning.
type AttachState struct {
	paths string
	limit attachment.Limit

	form *huh.Form
}

func (*AttachState) modalState() {}

func (s *AttachState) PreferredWidth() int { return ModalWidthWide }

func (s *AttachState) Title() string { return "Attach Files" }

func (s *AttachState) Help() string {
	return "Enter: attach  Esc: cancel"
}

func (s *AttachState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	limit := lipgloss.NewStyle().Foreground(ColorTextMuted).
		Render(fmt.Sprintf("Maximum size per file: %s", s.limit))
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), limit, help)
}

func (s *AttachState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Validate checks the entered paths, returning the first problem.
func (s *AttachState) Validate() error {
	return validatePaths(s.paths)
}

// Paths returns the trimmed, non-empty entered paths.
func (s *AttachState) Paths() []string {
	return splitPaths(s.paths)
}

// SetPaths sets the path field.
func (s *AttachState) SetPaths(v string) {
	s.paths = v
}

// Candidates resolves the entered paths. The first unreadable path aborts.
func (s *AttachState) Candidates() ([]attachment.Attachment, error) {
	var out []attachment.Attachment
	for _, p := range s.Paths() {
		a, err := attachment.FromPath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func splitPaths(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validatePaths(v string) error {
	paths := splitPaths(v)
	if len(paths) == 0 {
		return errors.New("enter at least one path")
	}
	for _, p := range paths {
		if _, err := attachment.FromPath(p); err != nil {
			return err
		}
	}
	return nil
}

// NewAttachState creates the attach modal.
func NewAttachState(limit attachment.Limit) *AttachState {
	s := &AttachState{limit: limit}
	s.form = newModalForm(ModalWidthWide-10,
		huh.NewGroup(
			huh.NewInput().
				Title("Files").
				Description("Supported: "+strings.Join(attachment.Extensions(), " ")).
				Placeholder("~/notes.md, ./diagram.png").
				CharLimit(ModalInputCharLimit).
				Value(&s.paths),
		),
	)
	return s
}
