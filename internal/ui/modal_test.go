package ui

import (
	"strings"
	"testing"

	"github.com/zhubert/agentdeck/internal/ui/modals"
)

func TestModal_ShowHide(t *testing.T) {
	m := NewModal()
	if m.IsVisible() {
		t.Fatal("new modal should be hidden")
	}
	if m.View(100, 40) != "" {
		t.Error("hidden modal should render nothing")
	}

	m.Show(modals.NewHelpStateFromSections([]modals.HelpSection{
		{Title: "General", Shortcuts: []modals.HelpShortcut{{Key: "ctrl+c", Desc: "Quit"}}},
	}))
	if !m.IsVisible() {
		t.Fatal("modal should be visible after Show")
	}

	m.SetError("something failed")
	if m.GetError() != "something failed" {
		t.Errorf("error = %q", m.GetError())
	}
	view := stripANSI(m.View(100, 40))
	for _, want := range []string{"Keyboard Shortcuts", "Quit", "something failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m.Hide()
	if m.IsVisible() || m.GetError() != "" {
		t.Error("Hide should clear state and error")
	}
}

func TestModal_ShowClearsError(t *testing.T) {
	m := NewModal()
	m.SetError("stale")
	m.Show(modals.NewAttachState(0))
	if m.GetError() != "" {
		t.Errorf("Show should clear the error, got %q", m.GetError())
	}
}

func TestModal_UpdateWhenHidden(t *testing.T) {
	m := NewModal()
	if _, cmd := m.Update(nil); cmd != nil {
		t.Error("hidden modal should not produce commands")
	}
}
