package modals

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Style variables, set by the parent ui package via SetStyles
var (
	ModalTitleStyle      lipgloss.Style
	ModalHelpStyle       lipgloss.Style
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style
	StatusErrorStyle     lipgloss.Style

	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorWarning     color.Color

	ModalInputWidth     int
	ModalInputCharLimit int
	ModalWidth          int
	ModalWidthWide      int
	HelpModalMaxVisible int
)

// Palette is the set of colors modals draw with.
type Palette struct {
	Primary     color.Color
	Secondary   color.Color
	Text        color.Color
	TextMuted   color.Color
	TextInverse color.Color
	Warning     color.Color
}

// Dimensions are the modal size constants.
type Dimensions struct {
	InputWidth     int
	InputCharLimit int
	Width          int
	WidthWide      int
	HelpMaxVisible int
}

// SetStyles sets the style variables from the parent ui package.
// This must be called before rendering any modals.
func SetStyles(
	modalTitle, modalHelp, sidebarItem, sidebarSelected, statusError lipgloss.Style,
	palette Palette, dims Dimensions,
) {
	ModalTitleStyle = modalTitle
	ModalHelpStyle = modalHelp
	SidebarItemStyle = sidebarItem
	SidebarSelectedStyle = sidebarSelected
	StatusErrorStyle = statusError

	ColorPrimary = palette.Primary
	ColorSecondary = palette.Secondary
	ColorText = palette.Text
	ColorTextMuted = palette.TextMuted
	ColorTextInverse = palette.TextInverse
	ColorWarning = palette.Warning

	ModalInputWidth = dims.InputWidth
	ModalInputCharLimit = dims.InputCharLimit
	ModalWidth = dims.Width
	ModalWidthWide = dims.WidthWide
	HelpModalMaxVisible = dims.HelpMaxVisible
}
