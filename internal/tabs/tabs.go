// Package tabs holds the open tabs of the main window and which one is
// active. The chat tab always exists and can never be closed.
package tabs

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/zhubert/agentdeck/internal/logger"
)

// ChatID is the id of the permanent chat tab.
const ChatID = "chat"

// Kind is what a tab displays.
type Kind string

const (
	KindChat         Kind = "chat"
	KindAgentConfig  Kind = "agent-config"
	KindPrompt       Kind = "prompt"
	KindActions      Kind = "actions"
	KindGlobalConfig Kind = "global-config"
)

// Tab is one entry of the tab bar. Data is whatever the panel for Kind
// needs; the store never inspects it.
type Tab struct {
	ID       string
	Title    string
	Kind     Kind
	Closable bool
	Data     any
}

// Info is a read-only view of a tab for rendering.
type Info struct {
	ID       string
	Title    string
	Kind     Kind
	Closable bool
	Active   bool
}

// Store is the ordered set of open tabs plus the active selection. The
// active id always names a tab in the store. Not safe for concurrent use;
// the UI event loop is its only writer.
type Store struct {
	tabs   *orderedmap.OrderedMap[string, *Tab]
	active string
}

// New returns a store holding only the chat tab, active.
func New() *Store {
	s := &Store{tabs: orderedmap.New[string, *Tab]()}
	s.tabs.Set(ChatID, &Tab{ID: ChatID, Title: "Chat", Kind: KindChat, Closable: false})
	s.active = ChatID
	return s
}

// Open activates the tab with tab.ID, adding it first if it is not open
// yet. An existing tab keeps its stored data. Tabs added here are always
// closable. Reports whether the tab was newly added.
func (s *Store) Open(tab Tab) bool {
	if _, ok := s.tabs.Get(tab.ID); ok {
		s.active = tab.ID
		return false
	}
	tab.Closable = true
	s.tabs.Set(tab.ID, &tab)
	s.active = tab.ID
	logger.WithComponent("Tabs").Debug("tab opened", "id", tab.ID, "kind", tab.Kind)
	return true
}

// Close removes the tab with id. If it was active, the last remaining tab
// becomes active. Unknown ids and non-closable tabs are left alone.
func (s *Store) Close(id string) bool {
	tab, ok := s.tabs.Get(id)
	if !ok || !tab.Closable {
		return false
	}
	s.tabs.Delete(id)

	if s.active == id {
		s.active = ChatID
		if newest := s.tabs.Newest(); newest != nil {
			s.active = newest.Key
		}
	}
	logger.WithComponent("Tabs").Debug("tab closed", "id", id, "active", s.active)
	return true
}

// SetActive selects the tab with id. Unknown ids leave the selection
// unchanged and return false.
func (s *Store) SetActive(id string) bool {
	if _, ok := s.tabs.Get(id); !ok {
		return false
	}
	s.active = id
	return true
}

// Active returns the id of the active tab.
func (s *Store) Active() string {
	return s.active
}

// ActiveTab returns the active tab.
func (s *Store) ActiveTab() *Tab {
	tab, _ := s.tabs.Get(s.active)
	return tab
}

// Get returns the tab with id.
func (s *Store) Get(id string) (*Tab, bool) {
	return s.tabs.Get(id)
}

// Update replaces the data of an open tab. Reports false for unknown ids.
func (s *Store) Update(id string, data any) bool {
	tab, ok := s.tabs.Get(id)
	if !ok {
		return false
	}
	tab.Data = data
	return true
}

// Tabs returns the open tabs in display order.
func (s *Store) Tabs() []Tab {
	out := make([]Tab, 0, s.tabs.Len())
	for pair := s.tabs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, *pair.Value)
	}
	return out
}

// Len returns the number of open tabs.
func (s *Store) Len() int {
	return s.tabs.Len()
}

// Next activates the tab after the active one, wrapping to the first.
func (s *Store) Next() string {
	pair := s.tabs.GetPair(s.active)
	if next := pair.Next(); next != nil {
		s.active = next.Key
	} else {
		s.active = s.tabs.Oldest().Key
	}
	return s.active
}

// Prev activates the tab before the active one, wrapping to the last.
func (s *Store) Prev() string {
	pair := s.tabs.GetPair(s.active)
	if prev := pair.Prev(); prev != nil {
		s.active = prev.Key
	} else {
		s.active = s.tabs.Newest().Key
	}
	return s.active
}

// Snapshot returns the tabs for rendering, marking the active one.
func (s *Store) Snapshot() []Info {
	out := make([]Info, 0, s.tabs.Len())
	for pair := s.tabs.Oldest(); pair != nil; pair = pair.Next() {
		t := pair.Value
		out = append(out, Info{
			ID:       t.ID,
			Title:    t.Title,
			Kind:     t.Kind,
			Closable: t.Closable,
			Active:   t.ID == s.active,
		})
	}
	return out
}
