package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/agentdeck/internal/config"
	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/tabs"
	"github.com/zhubert/agentdeck/internal/ui"
)

// Tab ids for the singleton panels and prefixes for per-agent ones.
const (
	GlobalConfigTabID = "global-config"
	ActionsTabID      = "actions"

	agentTabPrefix  = "agent-"
	promptTabPrefix = "prompt-"
)

// AgentTabID is the id of an agent's config tab.
func AgentTabID(agentID string) string { return agentTabPrefix + agentID }

// PromptTabID is the id of an agent's prompt tab.
func PromptTabID(agentID string) string { return promptTabPrefix + agentID }

// syncActiveTab pushes the tab store into the header and the panel. Call
// after every change to the store.
func (m *Model) syncActiveTab() {
	m.header.SetTabs(m.tabs.Snapshot())

	tab := m.tabs.ActiveTab()
	if tab != nil && tab.Kind != tabs.KindChat {
		content, _ := tab.Data.(ui.PanelContent)
		m.panel.SetContent(content)
	}
	m.setFocus(m.focus)
}

// openAgentConfig opens the config tab of agent, loading it unless a load is
// already in flight or the tab is already open.
func (m *Model) openAgentConfig(agent config.AgentRef) tea.Cmd {
	id := AgentTabID(agent.ID)
	added := m.tabs.Open(tabs.Tab{
		ID:    id,
		Title: agent.Name,
		Kind:  tabs.KindAgentConfig,
		Data:  ui.AgentConfigContent{Name: agent.Name, Loading: true},
	})
	m.setFocus(FocusMain)
	m.syncActiveTab()

	if !added || m.loadingAgents[agent.ID] {
		return nil
	}
	m.loadingAgents[agent.ID] = true
	logger.WithComponent("App").Debug("loading agent config", "agent", agent.ID)
	return loadAgentConfig(m.backend, agent)
}

func (m *Model) handleAgentConfigLoaded(msg AgentConfigLoadedMsg) (tea.Model, tea.Cmd) {
	delete(m.loadingAgents, msg.Agent.ID)

	if msg.Err != nil {
		logger.WithComponent("App").Warn("agent config load failed", "agent", msg.Agent.ID, "error", msg.Err)
	}

	// A tab closed while loading stays closed.
	if m.tabs.Update(AgentTabID(msg.Agent.ID), ui.AgentConfigContent{
		Name:   msg.Agent.Name,
		Config: msg.Config,
		Err:    msg.Err,
	}) {
		m.syncActiveTab()
	}
	return m, nil
}

// openPrompt opens the prompt tab for the agent-config tab that is active.
func (m *Model) openPrompt() tea.Cmd {
	tab := m.tabs.ActiveTab()
	if tab == nil || tab.Kind != tabs.KindAgentConfig {
		return nil
	}
	content, ok := tab.Data.(ui.AgentConfigContent)
	if !ok || content.Config == nil {
		return m.ShowFlashWarning("Agent configuration has not loaded")
	}

	agentID := strings.TrimPrefix(tab.ID, agentTabPrefix)
	m.tabs.Open(tabs.Tab{
		ID:    PromptTabID(agentID),
		Title: content.Name + " Prompt",
		Kind:  tabs.KindPrompt,
		Data: ui.PromptContent{
			Name:           content.Name + " Prompt",
			Prompt:         content.Config.PromptContent,
			ResponseFormat: content.Config.ResponseFormat,
		},
	})
	m.syncActiveTab()
	return nil
}

// openGlobalConfig opens the global config tab, loading it when first opened.
func (m *Model) openGlobalConfig() tea.Cmd {
	added := m.tabs.Open(tabs.Tab{
		ID:    GlobalConfigTabID,
		Title: "Global Config",
		Kind:  tabs.KindGlobalConfig,
		Data:  ui.GlobalConfigContent{Loading: true},
	})
	m.setFocus(FocusMain)
	m.syncActiveTab()
	if !added {
		return nil
	}
	return m.reloadGlobalConfig()
}

func (m *Model) reloadGlobalConfig() tea.Cmd {
	if m.loadingGlobal {
		return nil
	}
	m.loadingGlobal = true
	return loadGlobalConfig(m.backend)
}

func (m *Model) handleGlobalConfigLoaded(msg GlobalConfigLoadedMsg) (tea.Model, tea.Cmd) {
	m.loadingGlobal = false
	content := ui.GlobalConfigContent{Err: msg.Err}
	if msg.Err != nil {
		logger.WithComponent("App").Warn("global config load failed", "error", msg.Err)
	} else {
		cfg := msg.Config
		content.Config = &cfg
	}
	if m.tabs.Update(GlobalConfigTabID, content) {
		m.syncActiveTab()
	}
	return m, nil
}

// openActions opens the actions tab showing the sidebar's current list.
func (m *Model) openActions() tea.Cmd {
	m.tabs.Open(tabs.Tab{
		ID:    ActionsTabID,
		Title: "Actions",
		Kind:  tabs.KindActions,
	})
	m.tabs.Update(ActionsTabID, m.actionsContent(nil))
	m.setFocus(FocusMain)
	m.syncActiveTab()
	return nil
}

func (m *Model) actionsContent(err error) ui.ActionsContent {
	return ui.ActionsContent{
		Actions: m.sidebar.Actions(),
		Err:     err,
		Loading: m.sidebar.ActionsState() == ui.ActionsLoading,
	}
}

// refreshActions reloads the actions list.
func (m *Model) refreshActions() tea.Cmd {
	cmd := m.sidebar.SetActionsLoading()
	if m.tabs.Update(ActionsTabID, m.actionsContent(nil)) {
		m.syncActiveTab()
	}
	return tea.Batch(cmd, loadActions(m.backend))
}

func (m *Model) handleActionsLoaded(msg ActionsLoadedMsg) (tea.Model, tea.Cmd) {
	m.sidebar.SetActions(msg.Actions, msg.Err)
	if m.tabs.Update(ActionsTabID, m.actionsContent(msg.Err)) {
		m.syncActiveTab()
	}
	return m, nil
}

// refreshActiveTab reloads whatever the active tab shows.
func (m *Model) refreshActiveTab() tea.Cmd {
	tab := m.tabs.ActiveTab()
	switch tab.Kind {
	case tabs.KindGlobalConfig:
		m.tabs.Update(tab.ID, ui.GlobalConfigContent{Loading: true})
		m.syncActiveTab()
		return m.reloadGlobalConfig()
	case tabs.KindAgentConfig:
		agentID := strings.TrimPrefix(tab.ID, agentTabPrefix)
		for _, agent := range m.config.GetAgents() {
			if agent.ID != agentID || m.loadingAgents[agentID] {
				continue
			}
			m.loadingAgents[agentID] = true
			m.tabs.Update(tab.ID, ui.AgentConfigContent{Name: agent.Name, Loading: true})
			m.syncActiveTab()
			return loadAgentConfig(m.backend, agent)
		}
		return nil
	default:
		return m.refreshActions()
	}
}

// closeActiveTab closes the active tab. The chat tab cannot be closed.
func (m *Model) closeActiveTab() tea.Cmd {
	if !m.tabs.Close(m.tabs.Active()) {
		return nil
	}
	m.syncActiveTab()
	return nil
}

func (m *Model) nextTab() {
	m.tabs.Next()
	m.syncActiveTab()
}

func (m *Model) prevTab() {
	m.tabs.Prev()
	m.syncActiveTab()
}
