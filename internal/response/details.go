package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Format tells the renderer how to draw a section body.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Section is one block of the expanded reply view.
type Section struct {
	Title  string
	Body   string
	Format Format
}

// Details breaks a reply into the sections of the expanded view. The raw
// JSON is always the last section.
func Details(r *AgentResponse) []Section {
	if r == nil {
		return nil
	}

	var sections []Section

	if r.Mode != "" {
		sections = append(sections, Section{Title: "Mode", Body: r.Mode.String()})
	}

	if text, ok := r.TextContent(); ok {
		sections = append(sections, Section{Title: "Full Response", Body: text})
	}

	if r.ActionOutput != nil {
		sections = append(sections, Section{Title: "Action Output", Body: actionOutputBody(r.ActionOutput)})
	}

	if r.Task != "" {
		sections = append(sections, Section{Title: "Task", Body: r.Task})
	}

	if r.Plan != nil && r.Plan.Plans != nil {
		sections = append(sections, Section{
			Title: fmt.Sprintf("Plan Steps (%d)", len(r.Plan.Plans)),
			Body:  planBody(r.Plan.Plans),
		})
	}

	if r.Executed != nil && r.Executed.Executed != nil {
		sections = append(sections, Section{
			Title: fmt.Sprintf("Executed Steps (%d)", len(r.Executed.Executed)),
			Body:  executedBody(r.Executed.Executed),
		})
	}

	if r.Reflection != nil && (r.Reflection.Summary != "" || r.Reflection.Control != nil) {
		sections = append(sections, Section{Title: "Reflection", Body: reflectionBody(r.Reflection)})
	}

	sections = append(sections, Section{Title: "Raw Response", Body: RawJSON(r), Format: FormatJSON})
	return sections
}

// RawJSON returns the reply as indented JSON, preferring the bytes it was
// parsed from.
func RawJSON(r *AgentResponse) string {
	if r == nil {
		return "null"
	}
	data := []byte(r.Raw)
	if len(data) == 0 {
		var err error
		if data, err = json.Marshal(r); err != nil {
			return ""
		}
	}
	return indentJSON(data)
}

func actionOutputBody(out *ActionOutput) string {
	var lines []string
	if out.Source != "" {
		lines = append(lines, "Source: "+out.Source)
	}
	if out.Variable != "" {
		lines = append(lines, "Variable: "+out.Variable)
	}
	if out.HasResult() {
		lines = append(lines, "Result: "+resultText(out.Result))
	}
	return strings.Join(lines, "\n")
}

// resultText pretty prints objects, arrays and null, and coerces scalars.
func resultText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[' || bytes.Equal(trimmed, []byte("null"))) {
		return indentJSON(trimmed)
	}
	return coerce(raw)
}

func planBody(steps []PlanStep) string {
	var b strings.Builder
	for i, step := range steps {
		if i > 0 {
			b.WriteString("\n")
		}
		id := strconv.Itoa(i + 1)
		if step.Control != nil && step.Control.ID != "" {
			id = step.Control.ID
		}
		fmt.Fprintf(&b, "%s. %s\n", id, step.Message)
		if step.Intent != "" {
			fmt.Fprintf(&b, "   %s\n", step.Intent)
		}
		if req := step.ActionRequest; req != nil {
			name := req.ActionName
			if name == "" {
				name = "Unknown"
			}
			fmt.Fprintf(&b, "   Action: %s\n", name)
			if len(req.ActionArguments) > 0 {
				b.WriteString("   Arguments:\n")
				for _, arg := range req.ActionArguments {
					fmt.Fprintf(&b, "     %s: %s\n", arg.Name, compactJSON(arg.Value))
				}
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func executedBody(executed map[string]ExecutedStep) string {
	keys := make([]string, 0, len(executed))
	for k := range executed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		step := executed[key]
		if i > 0 {
			b.WriteString("\n")
		}
		id := "?"
		if step.Control != nil && step.Control.ID != "" {
			id = step.Control.ID
		}
		fmt.Fprintf(&b, "%s. %s\n", id, step.Message)
		if step.ActionOutput != nil {
			result := resultText(step.ActionOutput.Result)
			fmt.Fprintf(&b, "   Result: %s\n", strings.ReplaceAll(result, "\n", "\n   "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func reflectionBody(ref *Reflection) string {
	var lines []string
	if ref.Summary != "" {
		lines = append(lines, "Summary: "+ref.Summary)
	}
	if c := ref.Control; c != nil {
		if c.ErrorDetected != nil {
			detected := "no"
			if *c.ErrorDetected {
				detected = "yes"
			}
			lines = append(lines, "Error detected: "+detected)
		}
		if c.ErrorReason != "" {
			lines = append(lines, "Reason: "+c.ErrorReason)
		}
		if c.RecommendedAction != "" {
			lines = append(lines, "Recommended action: "+c.RecommendedAction)
		}
	}
	return strings.Join(lines, "\n")
}

func indentJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}

// compactJSON mirrors JSON.stringify without indentation. Absent values
// render as an empty string.
func compactJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
