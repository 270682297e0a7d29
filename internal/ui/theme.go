package ui

import "slices"

// Theme is a complete color palette for the application.
type Theme struct {
	// Name is the display name of the theme
	Name string

	// Dark selects the glamour base style and is what the light/dark toggle flips
	Dark bool

	// CodeStyle is the chroma style used for JSON and code blocks
	CodeStyle string

	Primary   string
	Secondary string

	Bg         string
	BgSelected string // defaults to Primary if empty

	Text        string
	TextMuted   string
	TextInverse string

	User      string
	Assistant string
	Warning   string
	Error     string
	Info      string
	Success   string

	Border      string
	BorderFocus string // defaults to Primary if empty
}

// GetBgSelected returns the selected background color, defaulting to Primary
func (t Theme) GetBgSelected() string {
	if t.BgSelected != "" {
		return t.BgSelected
	}
	return t.Primary
}

// GetBorderFocus returns the focused border color, defaulting to Primary
func (t Theme) GetBorderFocus() string {
	if t.BorderFocus != "" {
		return t.BorderFocus
	}
	return t.Primary
}

// MarkdownStyle returns the glamour standard style name for the theme.
func (t Theme) MarkdownStyle() string {
	if t.Dark {
		return "dark"
	}
	return "light"
}

// ThemeName identifies a built-in theme
type ThemeName string

const (
	ThemeDarkPurple ThemeName = "dark-purple"
	ThemeNord       ThemeName = "nord"
	ThemeDracula    ThemeName = "dracula"
	ThemeTokyoNight ThemeName = "tokyo-night"
	ThemeCatppuccin ThemeName = "catppuccin"
	ThemeLight      ThemeName = "light"
)

// DefaultTheme is used when the configured theme is unknown
const DefaultTheme = ThemeDarkPurple

// BuiltinThemes contains all built-in themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeDarkPurple: {
		Name:        "Dark Purple",
		Dark:        true,
		CodeStyle:   "monokai",
		Primary:     "#7C3AED",
		Secondary:   "#06B6D4",
		Bg:          "#1F2937",
		Text:        "#F9FAFB",
		TextMuted:   "#9CA3AF",
		TextInverse: "#1F2937",
		User:        "#A78BFA",
		Assistant:   "#22D3EE",
		Warning:     "#F59E0B",
		Error:       "#EF4444",
		Info:        "#06B6D4",
		Success:     "#10B981",
		Border:      "#374151",
	},
	ThemeNord: {
		Name:        "Nord",
		Dark:        true,
		CodeStyle:   "nord",
		Primary:     "#88C0D0",
		Secondary:   "#81A1C1",
		Bg:          "#2E3440",
		Text:        "#ECEFF4",
		TextMuted:   "#D8DEE9",
		TextInverse: "#2E3440",
		User:        "#A3BE8C",
		Assistant:   "#88C0D0",
		Warning:     "#EBCB8B",
		Error:       "#BF616A",
		Info:        "#81A1C1",
		Success:     "#A3BE8C",
		Border:      "#4C566A",
	},
	ThemeDracula: {
		Name:        "Dracula",
		Dark:        true,
		CodeStyle:   "dracula",
		Primary:     "#BD93F9",
		Secondary:   "#8BE9FD",
		Bg:          "#282A36",
		Text:        "#F8F8F2",
		TextMuted:   "#6272A4",
		TextInverse: "#282A36",
		User:        "#FF79C6",
		Assistant:   "#8BE9FD",
		Warning:     "#FFB86C",
		Error:       "#FF5555",
		Info:        "#8BE9FD",
		Success:     "#50FA7B",
		Border:      "#44475A",
	},
	ThemeTokyoNight: {
		Name:        "Tokyo Night",
		Dark:        true,
		CodeStyle:   "tokyonight-night",
		Primary:     "#7AA2F7",
		Secondary:   "#BB9AF7",
		Bg:          "#1A1B26",
		Text:        "#C0CAF5",
		TextMuted:   "#565F89",
		TextInverse: "#1A1B26",
		User:        "#9ECE6A",
		Assistant:   "#7AA2F7",
		Warning:     "#E0AF68",
		Error:       "#F7768E",
		Info:        "#7DCFFF",
		Success:     "#9ECE6A",
		Border:      "#3B4261",
	},
	ThemeCatppuccin: {
		Name:        "Catppuccin Mocha",
		Dark:        true,
		CodeStyle:   "catppuccin-mocha",
		Primary:     "#CBA6F7",
		Secondary:   "#89DCEB",
		Bg:          "#1E1E2E",
		Text:        "#CDD6F4",
		TextMuted:   "#6C7086",
		TextInverse: "#1E1E2E",
		User:        "#F5C2E7",
		Assistant:   "#89DCEB",
		Warning:     "#FAB387",
		Error:       "#F38BA8",
		Info:        "#89DCEB",
		Success:     "#A6E3A1",
		Border:      "#313244",
	},
	ThemeLight: {
		Name:        "Light",
		Dark:        false,
		CodeStyle:   "github",
		Primary:     "#6366F1",
		Secondary:   "#0891B2",
		Bg:          "#FFFFFF",
		BgSelected:  "#E0E7FF",
		Text:        "#1F2937",
		TextMuted:   "#6B7280",
		TextInverse: "#FFFFFF",
		User:        "#7C3AED",
		Assistant:   "#0891B2",
		Warning:     "#D97706",
		Error:       "#DC2626",
		Info:        "#0891B2",
		Success:     "#16A34A",
		Border:      "#D1D5DB",
		BorderFocus: "#6366F1",
	},
}

// ThemeNames returns all built-in theme names in display order
func ThemeNames() []ThemeName {
	return []ThemeName{
		ThemeDarkPurple,
		ThemeNord,
		ThemeDracula,
		ThemeTokyoNight,
		ThemeCatppuccin,
		ThemeLight,
	}
}

// IsKnownTheme reports whether name is a built-in theme.
func IsKnownTheme(name string) bool {
	return slices.Contains(ThemeNames(), ThemeName(name))
}

// GetTheme returns a theme by name, defaulting to DefaultTheme if not found
func GetTheme(name ThemeName) Theme {
	if theme, ok := BuiltinThemes[name]; ok {
		return theme
	}
	return BuiltinThemes[DefaultTheme]
}

var (
	currentTheme     = BuiltinThemes[DefaultTheme]
	currentThemeName = DefaultTheme
	// lastDarkTheme is where the toggle returns to from the light theme
	lastDarkTheme = DefaultTheme
)

// CurrentTheme returns the active theme
func CurrentTheme() Theme {
	return currentTheme
}

// CurrentThemeName returns the name of the active theme
func CurrentThemeName() ThemeName {
	return currentThemeName
}

// SetTheme activates a theme and regenerates all styles. Unknown names
// select DefaultTheme.
func SetTheme(name ThemeName) {
	if _, ok := BuiltinThemes[name]; !ok {
		name = DefaultTheme
	}
	currentThemeName = name
	currentTheme = BuiltinThemes[name]
	if currentTheme.Dark {
		lastDarkTheme = name
	}
	regenerateStyles()
	RefreshModalStyles()
}

// SetThemeByName activates a theme by its string name
func SetThemeByName(name string) {
	SetTheme(ThemeName(name))
}

// ToggleTheme switches between the light theme and the most recent dark
// theme, returning the new theme name.
func ToggleTheme() ThemeName {
	if currentTheme.Dark {
		SetTheme(ThemeLight)
	} else {
		SetTheme(lastDarkTheme)
	}
	return currentThemeName
}
