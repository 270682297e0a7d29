package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/agentdeck/internal/attachment"
	"github.com/zhubert/agentdeck/internal/conversation"
	"github.com/zhubert/agentdeck/internal/response"
)

func newTestChat() *Chat {
	c := NewChat()
	c.SetSize(100, 30)
	return c
}

func TestChat_EmptyState(t *testing.T) {
	c := newTestChat()
	view := stripANSI(c.View())
	if !strings.Contains(view, emptyTitle) {
		t.Errorf("empty chat missing %q:\n%s", emptyTitle, view)
	}
}

func TestChat_RendersTurns(t *testing.T) {
	c := newTestChat()
	c.SetTurns([]conversation.Turn{
		{Role: conversation.RoleUser, Content: "hello", CreatedAt: time.Date(2026, 1, 2, 9, 5, 0, 0, time.Local)},
		{Role: conversation.RoleAssistant, Content: "hi there", Raw: &response.AgentResponse{Mode: response.ModeRespond}},
	})

	view := stripANSI(c.View())
	for _, want := range []string{"You:", "09:05", "hello", "Prometheus:", "respond", "hi there"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRenderTurn_Error(t *testing.T) {
	turn := conversation.Turn{
		Role:    conversation.RoleAssistant,
		Content: "Error: backend unreachable",
		Err:     errors.New("dial tcp: refused"),
	}
	got := stripANSI(renderTurn(turn, 60))
	if !strings.Contains(got, "Error: backend unreachable") {
		t.Errorf("error turn missing text: %q", got)
	}
}

func TestRenderTurn_UserAttachments(t *testing.T) {
	turn := conversation.Turn{
		Role:        conversation.RoleUser,
		Content:     "see file",
		Attachments: []attachment.Attachment{{Name: "notes.md", Size: 2048}},
	}
	got := stripANSI(renderTurn(turn, 60))
	if !strings.Contains(got, "📎 notes.md (2 KB)") {
		t.Errorf("attachment line missing: %q", got)
	}
}

func TestChat_Attachments(t *testing.T) {
	c := newTestChat()
	if c.HasAttachments() {
		t.Fatal("new chat should have no attachments")
	}

	c.AddAttachments(attachment.Attachment{Name: "a.txt", Size: 10}, attachment.Attachment{Name: "b.png", Size: 2048})
	if len(c.Attachments()) != 2 {
		t.Errorf("attachments = %d, want 2", len(c.Attachments()))
	}
	view := stripANSI(c.View())
	if !strings.Contains(view, "a.txt") || !strings.Contains(view, "b.png") {
		t.Errorf("attachment line missing:\n%s", view)
	}

	c.ClearAttachments()
	if c.HasAttachments() {
		t.Error("attachments should be cleared")
	}
}

func TestChat_Input(t *testing.T) {
	c := newTestChat()
	c.SetFocused(true)

	c.SetInput("draft")
	if c.GetInput() != "draft" {
		t.Errorf("input = %q, want draft", c.GetInput())
	}
	c.InsertNewline()
	if !strings.Contains(c.GetInput(), "\n") {
		t.Error("newline not inserted")
	}
	c.ClearInput()
	if c.GetInput() != "" {
		t.Errorf("input not cleared: %q", c.GetInput())
	}
}

func TestChat_WaitingBlocksTyping(t *testing.T) {
	c := newTestChat()
	c.SetFocused(true)
	c.SetWaiting(true)

	c.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if c.GetInput() != "" {
		t.Errorf("input accepted text while waiting: %q", c.GetInput())
	}
	if !c.IsWaiting() {
		t.Error("expected waiting")
	}
	view := stripANSI(c.View())
	if !strings.Contains(view, "Prometheus is ") {
		t.Errorf("waiting indicator missing:\n%s", view)
	}

	c.SetWaiting(false)
	c.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if c.GetInput() != "x" {
		t.Errorf("input = %q after waiting ended, want x", c.GetInput())
	}
}

func TestChat_StopwatchTickOnlyWhileWaiting(t *testing.T) {
	c := newTestChat()
	if _, cmd := c.Update(StopwatchTickMsg(time.Now())); cmd != nil {
		t.Error("tick should stop when not waiting")
	}
	c.SetWaiting(true)
	if _, cmd := c.Update(StopwatchTickMsg(time.Now())); cmd == nil {
		t.Error("tick should continue while waiting")
	}
}

func TestChat_DetailsForLatestReplyOnly(t *testing.T) {
	c := newTestChat()
	first := &response.AgentResponse{Mode: response.ModeAct, Task: "first task"}
	second := &response.AgentResponse{Mode: response.ModePlan, Task: "second task"}
	c.SetTurns([]conversation.Turn{
		{Role: conversation.RoleUser, Content: "one"},
		{Role: conversation.RoleAssistant, Content: "a", Raw: first},
		{Role: conversation.RoleUser, Content: "two"},
		{Role: conversation.RoleAssistant, Content: "b", Raw: second},
	})

	if !c.ToggleDetails() {
		t.Fatal("ToggleDetails should report shown")
	}
	if !c.ShowingDetails() {
		t.Error("ShowingDetails should be true")
	}
	transcript := stripANSI(c.transcript)
	if !strings.Contains(transcript, "second task") {
		t.Error("latest reply details missing")
	}
	if strings.Contains(transcript, "first task") {
		t.Error("older reply should not show details")
	}

	c.ToggleDetails()
	if strings.Contains(stripANSI(c.transcript), "second task") {
		t.Error("details should be hidden after second toggle")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.0s"},
		{1200 * time.Millisecond, "1.2s"},
		{59 * time.Second, "59.0s"},
		{83 * time.Second, "1:23"},
		{10*time.Minute + 5*time.Second, "10:05"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
