package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/agentdeck/internal/attachment"
	"github.com/zhubert/agentdeck/internal/clipboard"
	"github.com/zhubert/agentdeck/internal/config"
	"github.com/zhubert/agentdeck/internal/conversation"
	"github.com/zhubert/agentdeck/internal/gateway"
	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/notification"
	"github.com/zhubert/agentdeck/internal/response"
)

// ReplyMsg carries the outcome of a chat send.
type ReplyMsg struct {
	Reply conversation.Reply
}

// ActionsLoadedMsg carries the result of listing actions.
type ActionsLoadedMsg struct {
	Actions []gateway.Action
	Err     error
}

// AgentConfigLoadedMsg carries one agent's configuration.
type AgentConfigLoadedMsg struct {
	Agent  config.AgentRef
	Config *gateway.AgentConfig
	Err    error
}

// GlobalConfigLoadedMsg carries the aggregate configuration.
type GlobalConfigLoadedMsg struct {
	Config gateway.GlobalConfig
	Err    error
}

// ClipboardImageMsg carries an image pasted from the clipboard, saved to a
// temporary file. Found is false when the clipboard held no image.
type ClipboardImageMsg struct {
	Attachment attachment.Attachment
	Found      bool
	Quiet      bool // Suppress the "no image" flash
	Err        error
}

// ClipboardCopiedMsg reports a copy to the clipboard.
type ClipboardCopiedMsg struct {
	What string
	Err  error
}

// exchange runs the backend call for an admitted send. The session is only
// used for its sender; the result is applied on the UI loop.
func exchange(session *conversation.Session, req conversation.Request) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Reply: session.Exchange(context.Background(), req)}
	}
}

func loadActions(b Backend) tea.Cmd {
	return func() tea.Msg {
		actions, err := b.ListActions(context.Background())
		return ActionsLoadedMsg{Actions: actions, Err: err}
	}
}

func loadAgentConfig(b Backend, agent config.AgentRef) tea.Cmd {
	return func() tea.Msg {
		cfg, err := b.GetAgentConfig(context.Background(), agent.ID)
		return AgentConfigLoadedMsg{Agent: agent, Config: cfg, Err: err}
	}
}

func loadGlobalConfig(b Backend) tea.Cmd {
	return func() tea.Msg {
		cfg, err := b.GetConfig(context.Background())
		return GlobalConfigLoadedMsg{Config: cfg, Err: err}
	}
}

// pasteImage reads an image from the clipboard and stores it as a PNG in
// the temp directory so it can be attached like any picked file.
func pasteImage(quiet bool) tea.Cmd {
	return func() tea.Msg {
		img, err := clipboard.ReadImage()
		if err != nil {
			return ClipboardImageMsg{Quiet: quiet, Err: err}
		}
		if img == nil {
			return ClipboardImageMsg{Quiet: quiet}
		}
		path, err := clipboard.SaveImage(img, "")
		if err != nil {
			return ClipboardImageMsg{Quiet: quiet, Err: err}
		}
		a, err := attachment.FromPath(path)
		if err != nil {
			return ClipboardImageMsg{Quiet: quiet, Err: err}
		}
		return ClipboardImageMsg{Attachment: a, Found: true, Quiet: quiet}
	}
}

func copyToClipboard(what, text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardCopiedMsg{What: what, Err: clipboard.WriteText(text)}
	}
}

// notifyReply sends a desktop notification for a finished send.
func notifyReply(turn conversation.Turn) tea.Cmd {
	return func() tea.Msg {
		var err error
		if turn.IsError() {
			err = notification.SendFailed()
		} else {
			err = notification.ReplyReady(turn.Raw)
		}
		if err != nil {
			logger.WithComponent("App").Debug("notification not shown", "error", err)
		}
		return nil
	}
}

// rawReply returns the raw JSON of the latest reply.
func rawReply(session *conversation.Session) (string, bool) {
	turn, ok := session.Store().LastReply()
	if !ok {
		return "", false
	}
	return response.RawJSON(turn.Raw), true
}
