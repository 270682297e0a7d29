package response

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Preview returns the single line of text shown for a reply in the
// transcript. A reflection summary always wins; otherwise the text output is
// used, falling back to a mode-specific message. It never fails.
func Preview(r *AgentResponse) string {
	if r == nil {
		return "No response received."
	}

	if r.Reflection != nil && r.Reflection.Summary != "" {
		return r.Reflection.Summary
	}

	text, hasText := r.TextContent()

	switch r.Mode {
	case ModeAct:
		if hasText {
			return text
		}
		if r.ActionOutput != nil {
			source := r.ActionOutput.Source
			if source == "" {
				source = "action"
			}
			return "Executed " + source + ": " + coerce(r.ActionOutput.Result)
		}
		return "Action executed."

	case ModePlan:
		if hasText {
			return text
		}
		if r.Task != "" {
			return "Planning: " + r.Task
		}
		return "Plan created."

	default:
		if hasText {
			return text
		}
		return "Response received."
	}
}

// coerce renders a JSON value the way string interpolation in a browser
// would: objects become "[object Object]", arrays are comma joined, and an
// absent value is "undefined".
func coerce(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "undefined"
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	return coerceValue(v, false)
}

func coerceValue(v any, inArray bool) string {
	switch x := v.(type) {
	case nil:
		if inArray {
			return ""
		}
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return formatNumber(x)
	case []any:
		parts := make([]string, len(x))
		for i, el := range x {
			parts[i] = coerceValue(el, true)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return ""
	}
}

// formatNumber prints n in the shortest round-trip form: 4, 1.5, 1e+21.
func formatNumber(n json.Number) string {
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'g', -1, 64)
		s = strings.Replace(s, "e+0", "e+", 1)
		s = strings.Replace(s, "e-0", "e-", 1)
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
