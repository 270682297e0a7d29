package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/agentdeck/internal/attachment"
	"github.com/zhubert/agentdeck/internal/conversation"
	"github.com/zhubert/agentdeck/internal/gateway"
	"github.com/zhubert/agentdeck/internal/keys"
	"github.com/zhubert/agentdeck/internal/notification"
	"github.com/zhubert/agentdeck/internal/tabs"
	"github.com/zhubert/agentdeck/internal/ui"
	"github.com/zhubert/agentdeck/internal/ui/modals"
)

func TestNew_InitialState(t *testing.T) {
	m, _ := testModel(t)

	if m.Focus() != FocusMain {
		t.Errorf("Focus() = %v, want %v", m.Focus(), FocusMain)
	}
	if m.Tabs().Active() != tabs.ChatID {
		t.Errorf("active tab = %q, want chat", m.Tabs().Active())
	}
	turns := m.Session().Store().Turns()
	if len(turns) != 1 || turns[0].Content != conversation.Greeting {
		t.Errorf("transcript = %+v, want the greeting only", turns)
	}
	if !m.chat.IsFocused() {
		t.Error("chat should be focused at startup")
	}
}

func TestFocus_String(t *testing.T) {
	tests := []struct {
		focus Focus
		want  string
	}{
		{FocusMain, "Main"},
		{FocusSidebar, "Sidebar"},
		{Focus(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.focus.String(); got != tt.want {
			t.Errorf("Focus(%d).String() = %q, want %q", tt.focus, got, tt.want)
		}
	}
}

func TestFocus_Switching(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)

	press(m, keys.Tab)
	if m.Focus() != FocusSidebar || !m.sidebar.IsFocused() || m.chat.IsFocused() {
		t.Fatalf("tab should focus the sidebar")
	}
	press(m, keys.Escape)
	if m.Focus() != FocusMain {
		t.Errorf("esc on the sidebar should return to main, got %v", m.Focus())
	}
	press(m, keys.ShiftTab)
	if m.Focus() != FocusSidebar {
		t.Errorf("shift+tab should toggle focus, got %v", m.Focus())
	}
}

func TestWindowFocusTracking(t *testing.T) {
	m, _ := testModel(t)
	m.Update(tea.BlurMsg{})
	if m.windowFocused {
		t.Error("BlurMsg should clear windowFocused")
	}
	m.Update(tea.FocusMsg{})
	if !m.windowFocused {
		t.Error("FocusMsg should set windowFocused")
	}
}

func TestSend_Flow(t *testing.T) {
	m, backend := testModelWithSize(t, 120, 40)
	backend.reply = textReply("Hi there")

	m.chat.SetInput("hello")
	cmd := press(m, keys.Enter)
	if cmd == nil {
		t.Fatal("enter should start the exchange")
	}
	if !m.Session().Pending() || !m.chat.IsWaiting() {
		t.Fatal("session should be pending while waiting for the reply")
	}
	if m.chat.GetInput() != "" {
		t.Errorf("input should be cleared, got %q", m.chat.GetInput())
	}
	turns := m.Session().Store().Turns()
	if last := turns[len(turns)-1]; last.Role != conversation.RoleUser || last.Content != "hello" {
		t.Errorf("last turn = %+v, want the user message", last)
	}

	// A second send while pending is refused.
	m.chat.SetInput("again")
	press(m, keys.Enter)
	if !m.footer.HasFlash() {
		t.Error("send while pending should flash a warning")
	}

	m.Update(ReplyMsg{Reply: conversation.Reply{Response: backend.reply}})
	if m.Session().Pending() || m.chat.IsWaiting() {
		t.Error("reply should end the pending state")
	}
	turns = m.Session().Store().Turns()
	if last := turns[len(turns)-1]; last.Role != conversation.RoleAssistant || last.Content != "Hi there" {
		t.Errorf("last turn = %+v, want the reply", last)
	}
	if !m.hasReply() {
		t.Error("hasReply() should be true after a reply")
	}
}

func TestSend_EmptyIsIgnored(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	m.chat.SetInput("   ")
	if cmd := press(m, keys.Enter); cmd != nil {
		t.Error("blank input should not send")
	}
	if m.Session().Pending() {
		t.Error("blank input should not mark the session pending")
	}
}

func TestSend_ErrorTurn(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	m.chat.SetInput("hello")
	press(m, keys.Enter)

	m.Update(ReplyMsg{Reply: conversation.Reply{Err: errors.New("connection refused")}})
	turns := m.Session().Store().Turns()
	if last := turns[len(turns)-1]; !last.IsError() {
		t.Errorf("last turn = %+v, want an error turn", last)
	}
}

func TestReply_NotifiesWhenWindowBlurred(t *testing.T) {
	var titles []string
	notification.SetNotifier(func(title, _ string, _ any) error {
		titles = append(titles, title)
		return nil
	})
	t.Cleanup(notification.ResetNotifier)

	tests := []struct {
		name    string
		enabled bool
		blurred bool
		want    bool
	}{
		{"enabled and blurred", true, true, true},
		{"enabled and focused", true, false, false},
		{"disabled", false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titles = nil
			m, _ := testModelWithSize(t, 120, 40)
			m.config.SetNotificationsEnabled(tt.enabled)
			if tt.blurred {
				m.Update(tea.BlurMsg{})
			}
			m.chat.SetInput("hello")
			press(m, keys.Enter)

			_, cmd := m.Update(ReplyMsg{Reply: conversation.Reply{Response: textReply("done")}})
			if (cmd != nil) != tt.want {
				t.Fatalf("notification cmd = %v, want %v", cmd != nil, tt.want)
			}
			if cmd != nil {
				cmd()
				if len(titles) != 1 {
					t.Errorf("notifications sent = %d, want 1", len(titles))
				}
			}
		})
	}
}

func TestSidebarEnter_OpensAgentConfig(t *testing.T) {
	m, backend := testModelWithSize(t, 120, 40)
	backend.agentConfig = &gateway.AgentConfig{PromptContent: "You plan.", Prompt: "planner.txt"}

	selectAgent(t, m, "planner")
	cmd := press(m, keys.Enter)
	if cmd == nil {
		t.Fatal("opening an agent should load its config")
	}

	id := AgentTabID("planner")
	if m.Tabs().Active() != id {
		t.Fatalf("active tab = %q, want %q", m.Tabs().Active(), id)
	}
	if m.Focus() != FocusMain {
		t.Error("opening a tab should focus the main pane")
	}
	tab, _ := m.Tabs().Get(id)
	if content, ok := tab.Data.(ui.AgentConfigContent); !ok || !content.Loading {
		t.Errorf("tab data = %#v, want loading content", tab.Data)
	}

	// Opening it again only activates it.
	if again := m.openAgentConfig(m.config.GetAgents()[1]); again != nil {
		t.Error("reopening an open tab should not reload")
	}

	m.Update(cmd())
	if len(backend.agentCalls) != 1 || backend.agentCalls[0] != "planner" {
		t.Errorf("agent calls = %v, want [planner]", backend.agentCalls)
	}
	tab, _ = m.Tabs().Get(id)
	content := tab.Data.(ui.AgentConfigContent)
	if content.Loading || content.Config == nil || content.Config.PromptContent != "You plan." {
		t.Errorf("loaded content = %#v", content)
	}
	if len(m.loadingAgents) != 0 {
		t.Errorf("loadingAgents = %v, want empty", m.loadingAgents)
	}
}

func TestAgentConfigLoaded_ClosedTabStaysClosed(t *testing.T) {
	m, backend := testModelWithSize(t, 120, 40)
	backend.agentConfig = &gateway.AgentConfig{}

	selectAgent(t, m, "executor")
	cmd := press(m, keys.Enter)
	press(m, keys.CtrlW)
	if m.Tabs().Len() != 1 {
		t.Fatalf("tab count after close = %d, want 1", m.Tabs().Len())
	}

	m.Update(cmd())
	if _, ok := m.Tabs().Get(AgentTabID("executor")); ok {
		t.Error("a late result must not reopen a closed tab")
	}
}

func TestAgentConfigLoaded_Error(t *testing.T) {
	m, backend := testModelWithSize(t, 120, 40)
	backend.agentErr = errors.New("agent not found")

	selectAgent(t, m, "reflector")
	cmd := press(m, keys.Enter)
	m.Update(cmd())

	tab, _ := m.Tabs().Get(AgentTabID("reflector"))
	content := tab.Data.(ui.AgentConfigContent)
	if content.Err == nil || content.Loading {
		t.Errorf("content = %#v, want the error", content)
	}
}

func TestOpenPrompt(t *testing.T) {
	m, backend := testModelWithSize(t, 120, 40)
	backend.agentConfig = &gateway.AgentConfig{PromptContent: "Plan carefully."}

	selectAgent(t, m, "planner")

	// Not loaded yet: warn instead of opening.
	cmd := press(m, keys.Enter)
	press(m, "p")
	if _, ok := m.Tabs().Get(PromptTabID("planner")); ok {
		t.Fatal("prompt tab should wait for the config")
	}

	m.Update(cmd())
	press(m, "p")
	tab := m.Tabs().ActiveTab()
	if tab.ID != PromptTabID("planner") || tab.Kind != tabs.KindPrompt {
		t.Fatalf("active tab = %+v, want the prompt tab", tab)
	}
	if content := tab.Data.(ui.PromptContent); content.Prompt != "Plan carefully." {
		t.Errorf("prompt = %q", content.Prompt)
	}
}

func TestGlobalConfigTab(t *testing.T) {
	m, backend := testModelWithSize(t, 120, 40)
	backend.globalErr = errors.New("offline")

	cmd := press(m, keys.CtrlG)
	if cmd == nil || m.Tabs().Active() != GlobalConfigTabID {
		t.Fatal("ctrl+g should open and load the global config")
	}
	if again := press(m, keys.CtrlG); again != nil {
		t.Error("reopening the tab should not reload")
	}

	m.Update(cmd())
	tab, _ := m.Tabs().Get(GlobalConfigTabID)
	if content := tab.Data.(ui.GlobalConfigContent); content.Err == nil {
		t.Error("error should be shown in the tab")
	}

	backend.globalErr = nil
	refresh := press(m, keys.CtrlR)
	if refresh == nil {
		t.Fatal("ctrl+r should reload the global config")
	}
	m.Update(refresh())
	tab, _ = m.Tabs().Get(GlobalConfigTabID)
	if content := tab.Data.(ui.GlobalConfigContent); content.Err != nil || content.Config == nil {
		t.Errorf("content after refresh = %#v", content)
	}
	if backend.globalCalls != 2 {
		t.Errorf("global config calls = %d, want 2", backend.globalCalls)
	}
}

func TestActionsTab(t *testing.T) {
	m, backend := testModelWithSize(t, 120, 40)
	backend.actions = []gateway.Action{{Name: "search"}, {Name: "noop"}}

	press(m, keys.CtrlL)
	tab := m.Tabs().ActiveTab()
	if tab.ID != ActionsTabID {
		t.Fatalf("active tab = %q, want actions", tab.ID)
	}
	if content := tab.Data.(ui.ActionsContent); !content.Loading {
		t.Error("actions should show loading before the first load")
	}

	m.Update(loadActions(backend)())
	tab, _ = m.Tabs().Get(ActionsTabID)
	content := tab.Data.(ui.ActionsContent)
	if content.Loading || len(content.Actions) != 2 {
		t.Errorf("content = %#v, want two actions", content)
	}
	if m.sidebar.ActionsState() != ui.ActionsLoaded {
		t.Error("sidebar should show the loaded actions")
	}
}

func TestTabCycling(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	press(m, keys.CtrlG, keys.CtrlL)
	if m.Tabs().Len() != 3 {
		t.Fatalf("tab count = %d, want 3", m.Tabs().Len())
	}

	press(m, keys.CtrlN)
	if m.Tabs().Active() != tabs.ChatID {
		t.Errorf("ctrl+n from the last tab should wrap to chat, got %q", m.Tabs().Active())
	}
	press(m, keys.CtrlP)
	if m.Tabs().Active() != ActionsTabID {
		t.Errorf("ctrl+p from chat should wrap to the last tab, got %q", m.Tabs().Active())
	}
}

func TestCloseTab_ChatIsPermanent(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	m.chat.SetInput("two words")
	press(m, keys.CtrlW)
	if m.Tabs().Len() != 1 || m.Tabs().Active() != tabs.ChatID {
		t.Error("ctrl+w must not close the chat tab")
	}
}

func TestAttachModal(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	dir := t.TempDir()
	good := filepath.Join(dir, "notes.md")
	bad := filepath.Join(dir, "tool.exe")
	for _, p := range []string{good, bad} {
		if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	press(m, keys.CtrlO)
	state, ok := m.modal.State.(*modals.AttachState)
	if !ok || !m.modal.IsVisible() {
		t.Fatal("ctrl+o should open the attach modal")
	}

	state.SetPaths(filepath.Join(dir, "missing.md"))
	press(m, keys.Enter)
	if !m.modal.IsVisible() || m.modal.GetError() == "" {
		t.Fatal("a missing file should keep the modal open with an error")
	}

	state.SetPaths(good + ", " + bad)
	press(m, keys.Enter)
	if m.modal.IsVisible() {
		t.Fatal("valid paths should close the modal")
	}
	atts := m.chat.Attachments()
	if len(atts) != 1 || atts[0].Name != "notes.md" {
		t.Errorf("attachments = %+v, want notes.md only", atts)
	}
	if !m.footer.HasFlash() {
		t.Error("the rejected file should flash a warning")
	}

	press(m, keys.CtrlX)
	if m.chat.HasAttachments() {
		t.Error("ctrl+x should clear attachments")
	}
}

func TestAddAttachments_WarnsPerRejectedFile(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)

	m.addAttachments(
		attachment.Attachment{Name: "a.exe", Size: 10},
		attachment.Attachment{Name: "b.zip", Size: 10},
	)

	flashes := m.footer.Flashes()
	if len(flashes) != 2 {
		t.Fatalf("flashes = %q, want one per rejected file", flashes)
	}
	for i, name := range []string{"a.exe", "b.zip"} {
		if !strings.Contains(flashes[i], name) {
			t.Errorf("flash %d = %q, want it to name %s", i, flashes[i], name)
		}
		other := []string{"b.zip", "a.exe"}[i]
		if strings.Contains(flashes[i], other) {
			t.Errorf("flash %d = %q also names %s", i, flashes[i], other)
		}
	}
	if m.chat.HasAttachments() {
		t.Error("rejected files should not be queued")
	}
}

func TestClipboardImageMsg(t *testing.T) {
	tests := []struct {
		name      string
		msg       ClipboardImageMsg
		wantFlash bool
	}{
		{"quiet empty", ClipboardImageMsg{Quiet: true}, false},
		{"empty", ClipboardImageMsg{}, true},
		{"quiet error", ClipboardImageMsg{Quiet: true, Err: errors.New("no display")}, false},
		{"error", ClipboardImageMsg{Err: errors.New("no display")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := testModelWithSize(t, 120, 40)
			m.Update(tt.msg)
			if m.footer.HasFlash() != tt.wantFlash {
				t.Errorf("HasFlash() = %v, want %v", m.footer.HasFlash(), tt.wantFlash)
			}
			if m.chat.HasAttachments() {
				t.Error("no attachment expected")
			}
		})
	}
}

func TestSettingsModal_Apply(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)

	press(m, keys.CtrlS)
	state, ok := m.modal.State.(*modals.SettingsState)
	if !ok {
		t.Fatal("ctrl+s should open settings")
	}
	state.NotificationsEnabled = true
	press(m, keys.Enter)

	if m.modal.IsVisible() {
		t.Error("enter should close settings")
	}
	if !m.config.GetNotificationsEnabled() {
		t.Error("notifications should be enabled")
	}
}

func TestToggleTheme(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	before := ui.CurrentThemeName()

	press(m, keys.CtrlT)
	after := ui.CurrentThemeName()
	if after == before {
		t.Fatal("ctrl+t should change the theme")
	}
	if m.config.GetTheme() != string(after) {
		t.Errorf("config theme = %q, want %q", m.config.GetTheme(), after)
	}
}

func TestHelpModal(t *testing.T) {
	m, backend := testModelWithSize(t, 120, 40)

	// "?" in the chat input is text.
	press(m, "?")
	if m.modal.IsVisible() {
		t.Fatal("? should type into the chat input")
	}

	press(m, keys.CtrlSlash)
	if _, ok := m.modal.State.(*modals.HelpState); !ok {
		t.Fatal("ctrl+/ should open help")
	}
	press(m, keys.Escape)

	press(m, keys.Tab, "?")
	if _, ok := m.modal.State.(*modals.HelpState); !ok || !m.modal.IsVisible() {
		t.Fatal("? on the sidebar should open help")
	}

	_, cmd := m.Update(modals.HelpShortcutTriggeredMsg{Key: keys.CtrlG})
	if m.modal.IsVisible() {
		t.Error("running a shortcut should close help")
	}
	if m.Tabs().Active() != GlobalConfigTabID || cmd == nil {
		t.Fatal("the picked shortcut should run")
	}
	m.Update(cmd())
	if backend.globalCalls != 1 {
		t.Errorf("global config calls = %d, want 1", backend.globalCalls)
	}
}

func TestView(t *testing.T) {
	m, _ := testModel(t)
	if got := m.View(); !got.AltScreen {
		t.Error("view should use the alternate screen")
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	out := m.RenderToString()
	for _, want := range []string{"agentdeck", "Chat", "Prometheus"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	press(m, keys.CtrlSlash)
	if out := m.RenderToString(); !strings.Contains(out, "Keyboard Shortcuts") {
		t.Error("help modal should be drawn")
	}
}
