package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/zhubert/agentdeck/internal/tabs"
)

func TestNewFooter(t *testing.T) {
	footer := NewFooter()

	if len(footer.bindings) == 0 {
		t.Error("Expected default bindings to be set")
	}
	if footer.flashMessage != nil {
		t.Error("Expected no flash message initially")
	}
}

func TestFooter_SetFlash(t *testing.T) {
	footer := NewFooter()
	footer.SetFlash("Test error message", FlashError)

	if footer.flashMessage == nil {
		t.Fatal("Expected flash message to be set")
	}
	if footer.flashMessage.Text != "Test error message" {
		t.Errorf("Text = %q", footer.flashMessage.Text)
	}
	if footer.flashMessage.Type != FlashError {
		t.Errorf("Type = %v, want FlashError", footer.flashMessage.Type)
	}
	if footer.flashMessage.Duration != DefaultFlashDuration {
		t.Errorf("Duration = %v, want %v", footer.flashMessage.Duration, DefaultFlashDuration)
	}
}

func TestFooter_ClearFlash(t *testing.T) {
	footer := NewFooter()
	footer.SetFlashWithDuration("Test message", FlashInfo, time.Minute)
	if !footer.HasFlash() {
		t.Fatal("Expected HasFlash() to return true")
	}

	footer.ClearFlash()
	if footer.HasFlash() {
		t.Error("Expected HasFlash() to return false after ClearFlash()")
	}
}

func TestFlashMessage_IsExpired(t *testing.T) {
	fresh := &FlashMessage{Text: "Test", CreatedAt: time.Now(), Duration: 5 * time.Second}
	if fresh.IsExpired() {
		t.Error("New message should not be expired")
	}

	old := &FlashMessage{Text: "Test", CreatedAt: time.Now().Add(-10 * time.Second), Duration: 5 * time.Second}
	if !old.IsExpired() {
		t.Error("Old message should be expired")
	}
}

func TestFooter_ClearIfExpired(t *testing.T) {
	footer := NewFooter()
	footer.SetFlash("Not expired", FlashInfo)

	if footer.ClearIfExpired() {
		t.Error("Should not clear non-expired message")
	}

	footer.flashMessage = &FlashMessage{
		Text:      "Expired",
		CreatedAt: time.Now().Add(-10 * time.Second),
		Duration:  5 * time.Second,
	}
	if !footer.ClearIfExpired() {
		t.Error("Should clear expired message")
	}
	if footer.HasFlash() {
		t.Error("Flash should be cleared")
	}
}

func TestFooter_FlashTypes(t *testing.T) {
	tests := []struct {
		name         string
		flashType    FlashType
		expectedIcon string
	}{
		{"Error", FlashError, "✕"},
		{"Warning", FlashWarning, "⚠"},
		{"Info", FlashInfo, "ℹ"},
		{"Success", FlashSuccess, "✓"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			footer := NewFooter()
			footer.SetWidth(80)
			footer.SetFlash("Test message", tt.flashType)

			view := footer.View()
			if !strings.Contains(view, tt.expectedIcon) {
				t.Errorf("view should contain %q, got %q", tt.expectedIcon, stripANSI(view))
			}
			if !strings.Contains(stripANSI(view), "Test message") {
				t.Error("flash text should be visible")
			}
		})
	}
}

func TestFooter_Bindings(t *testing.T) {
	tests := []struct {
		name    string
		context FooterContext
		want    []string
		notWant []string
	}{
		{
			name:    "chat idle",
			context: FooterContext{ActiveKind: tabs.KindChat},
			want:    []string{"send", "attach"},
			notWant: []string{"clear files", "details"},
		},
		{
			name:    "chat with attachments and reply",
			context: FooterContext{ActiveKind: tabs.KindChat, HasAttachments: true, HasReply: true},
			want:    []string{"clear files", "details", "copy json"},
		},
		{
			name:    "chat sending",
			context: FooterContext{ActiveKind: tabs.KindChat, Sending: true},
			want:    []string{"scroll"},
			notWant: []string{"send"},
		},
		{
			name:    "sidebar focused",
			context: FooterContext{SidebarFocused: true, ActiveKind: tabs.KindChat},
			want:    []string{"navigate", "open", "refresh actions"},
			notWant: []string{"send"},
		},
		{
			name:    "agent config tab",
			context: FooterContext{ActiveKind: tabs.KindAgentConfig},
			want:    []string{"prompt", "close tab"},
		},
		{
			name:    "global config tab",
			context: FooterContext{ActiveKind: tabs.KindGlobalConfig},
			want:    []string{"close tab"},
			notWant: []string{"prompt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			footer := NewFooter()
			footer.SetWidth(200)
			footer.SetContext(tt.context)

			view := stripANSI(footer.View())
			for _, w := range tt.want {
				if !strings.Contains(view, w) {
					t.Errorf("footer should contain %q, got %q", w, view)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(view, nw) {
					t.Errorf("footer should not contain %q, got %q", nw, view)
				}
			}
		})
	}
}

func TestFooter_FlashReplacesBindings(t *testing.T) {
	footer := NewFooter()
	footer.SetWidth(120)

	if strings.Contains(stripANSI(footer.View()), "Copied") {
		t.Fatal("no flash expected yet")
	}

	footer.SetFlash("Copied", FlashSuccess)
	view := stripANSI(footer.View())
	if !strings.Contains(view, "Copied") {
		t.Errorf("flash should be visible, got %q", view)
	}
	if strings.Contains(view, "send") {
		t.Errorf("bindings should be hidden during a flash, got %q", view)
	}
}

func TestFooter_QueueFlash(t *testing.T) {
	footer := NewFooter()
	footer.QueueFlash("first", FlashWarning)
	footer.QueueFlash("second", FlashWarning)

	got := footer.Flashes()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("Flashes() = %q, want [first second]", got)
	}
	if footer.ClearIfExpired() {
		t.Fatal("the first flash has not expired yet")
	}

	footer.flashMessage.CreatedAt = time.Now().Add(-time.Hour)
	if !footer.ClearIfExpired() {
		t.Fatal("expired flash should be cleared")
	}
	if !footer.HasFlash() || footer.flashMessage.Text != "second" {
		t.Fatalf("queued flash should be promoted, got %q", footer.Flashes())
	}
	if footer.flashMessage.IsExpired() {
		t.Error("promoted flash should get a fresh duration")
	}

	footer.ClearFlash()
	if len(footer.Flashes()) != 0 {
		t.Error("ClearFlash should drop queued messages")
	}
}
