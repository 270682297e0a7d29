package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the tab bar height in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/4 of total width)
	SidebarWidthRatio = 4

	// SidebarMinWidth keeps agent names readable on narrow terminals
	SidebarMinWidth = 24

	// TextareaHeight is the number of lines for the chat input textarea
	TextareaHeight = 3

	// TextareaBorderHeight is the border size around the textarea
	TextareaBorderHeight = 2

	// InputPaddingWidth is the horizontal padding inside the input area
	InputPaddingWidth = 2

	// InputTotalHeight is the total height of the input area (textarea + borders)
	InputTotalHeight = TextareaHeight + TextareaBorderHeight

	// DefaultWrapWidth is used for wrapping before the first WindowSizeMsg
	DefaultWrapWidth = 80

	// MaxMarkdownWidth caps glamour's word wrap on wide terminals
	MaxMarkdownWidth = 120

	MinTerminalWidth  = 60
	MinTerminalHeight = 15
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 64

	// ModalWidthWide is used by modals that show long values such as URLs
	ModalWidthWide = 90

	// ModalInputCharLimit is the character limit for modal text inputs
	ModalInputCharLimit = 1024

	// ModalInputWidth is the width of modal text inputs
	ModalInputWidth = 54

	// HelpModalMaxVisible is the number of rows the help list shows
	HelpModalMaxVisible = 18
)
