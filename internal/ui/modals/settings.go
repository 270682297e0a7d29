package modals

import (
	"slices"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// ThemeOption is a selectable theme.
type ThemeOption struct {
	Name  string // Key stored in the config file
	Label string
}

const optionNotifications = "notifications"

// SettingsState edits the persisted client preferences.
type SettingsState struct {
	selectedTheme string
	originalTheme string

	NotificationsEnabled bool
	generalOptions       []string

	apiURL string

	form *huh.Form

	availableWidth int
}

func (*SettingsState) modalState() {}

func (s *SettingsState) PreferredWidth() int { return ModalWidthWide }

// SetSize updates the available width for rendering content.
func (s *SettingsState) SetSize(width, height int) {
	s.availableWidth = width
	s.form.WithWidth(s.contentWidth())
}

func (s *SettingsState) contentWidth() int {
	if s.availableWidth > 0 {
		return s.availableWidth - 10
	}
	return ModalWidthWide - 10
}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Space: toggle  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	endpoint := lipgloss.NewStyle().Foreground(ColorTextMuted).
		Render("API endpoint: " + s.apiURL + " (set with --api-url or api_url)")
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), endpoint, help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	s.syncFromMultiSelect()
	return s, cmd
}

func (s *SettingsState) syncFromMultiSelect() {
	s.NotificationsEnabled = slices.Contains(s.generalOptions, optionNotifications)
}

// GetSelectedTheme returns the selected theme key.
func (s *SettingsState) GetSelectedTheme() string {
	return s.selectedTheme
}

// ThemeChanged returns true if the selected theme differs from the original.
func (s *SettingsState) ThemeChanged() bool {
	return s.selectedTheme != s.originalTheme
}

// NewSettingsState creates the settings modal with the current values.
func NewSettingsState(themes []ThemeOption, currentTheme string, notifications bool, apiURL string) *SettingsState {
	s := &SettingsState{
		selectedTheme:        currentTheme,
		originalTheme:        currentTheme,
		NotificationsEnabled: notifications,
		apiURL:               apiURL,
	}
	if notifications {
		s.generalOptions = append(s.generalOptions, optionNotifications)
	}

	themeOpts := make([]huh.Option[string], len(themes))
	for i, t := range themes {
		themeOpts[i] = huh.NewOption(t.Label, t.Name)
	}

	s.form = newModalForm(s.contentWidth(),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&s.selectedTheme),
			huh.NewMultiSelect[string]().
				Title("General").
				Options(
					huh.NewOption("Desktop notification when a reply arrives", optionNotifications),
				).
				Value(&s.generalOptions),
		),
	)
	return s
}
