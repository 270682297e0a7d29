package ui

import (
	"bytes"
	"strings"
	"sync"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/zhubert/agentdeck/internal/logger"
	"github.com/zhubert/agentdeck/internal/response"
)

// markdownCache holds one glamour renderer, rebuilt when the width or the
// theme's markdown style changes.
var markdownCache struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
	style    string
}

func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	style := CurrentTheme().MarkdownStyle()

	markdownCache.mu.Lock()
	defer markdownCache.mu.Unlock()

	if markdownCache.renderer != nil && markdownCache.width == width && markdownCache.style == style {
		return markdownCache.renderer, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	markdownCache.renderer = r
	markdownCache.width = width
	markdownCache.style = style
	return r, nil
}

// RenderMarkdown renders md for a column of the given width. On renderer
// failure the text is returned wrapped but otherwise unstyled.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultWrapWidth
	}
	width = min(width, MaxMarkdownWidth)

	r, err := markdownRenderer(width)
	if err != nil {
		logger.WithComponent("Render").Warn("markdown renderer unavailable", "error", err)
		return wrapPlain(md, width)
	}
	out, err := r.Render(md)
	if err != nil {
		logger.WithComponent("Render").Warn("markdown render failed", "error", err)
		return wrapPlain(md, width)
	}
	return strings.Trim(out, "\n")
}

// wrapPlain wraps text to width without any other styling.
func wrapPlain(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(text)
}

// HighlightJSON colors a JSON document with the theme's chroma style.
func HighlightJSON(code string) string {
	return highlightCode(code, "json")
}

func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(CurrentTheme().CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return strings.TrimRight(buf.String(), "\n")
}

// RenderDetails renders the expanded breakdown of a reply.
func RenderDetails(r *response.AgentResponse, width int) string {
	sections := response.Details(r)
	if len(sections) == 0 {
		return ""
	}

	inner := max(width-BorderSize-2, 10)
	var parts []string
	for _, s := range sections {
		body := s.Body
		if s.Format == response.FormatJSON {
			body = HighlightJSON(body)
		} else {
			body = wrapPlain(body, inner)
		}
		parts = append(parts, ChatDetailTitleStyle.Render(s.Title)+"\n"+body)
	}
	return ChatDetailBoxStyle.Width(max(width, 12)).Render(strings.Join(parts, "\n\n"))
}
