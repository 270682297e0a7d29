// Package response models the structured reply returned by the agent backend
// and turns it into the text shown in the transcript.
package response

import (
	"bytes"
	"encoding/json"
)

// Mode is the reply mode reported by the backend. Unknown values are kept
// verbatim.
type Mode string

const (
	ModeRespond Mode = "respond"
	ModeAct     Mode = "act"
	ModePlan    Mode = "plan"
)

func (m Mode) String() string {
	return string(m)
}

// Known reports whether m is one of the modes the client understands.
func (m Mode) Known() bool {
	switch m {
	case ModeRespond, ModeAct, ModePlan:
		return true
	}
	return false
}

// AgentResponse is the body of a successful /chat call. Every payload field
// is optional.
type AgentResponse struct {
	Mode         Mode          `json:"mode,omitempty"`
	Text         *Text         `json:"text,omitempty"`
	ActionOutput *ActionOutput `json:"action_output,omitempty"`
	Task         string        `json:"task,omitempty"`
	Plan         *Plan         `json:"plan,omitempty"`
	Executed     *Executed     `json:"executed,omitempty"`
	Reflection   *Reflection   `json:"reflection,omitempty"`

	// Raw holds the bytes the response was parsed from.
	Raw json.RawMessage `json:"-"`
}

// Text is the model's text output. The backend sends either an object with
// a content field or, in older versions, a bare string.
type Text struct {
	Content string
	// Plain is set when the payload was a bare string.
	Plain bool
}

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Content = s
		t.Plain = true
		return nil
	}

	var obj struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Plain = false
	t.Content = ""
	var content string
	if json.Unmarshal(obj.Content, &content) == nil {
		t.Content = content
	}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if t.Plain {
		return json.Marshal(t.Content)
	}
	return json.Marshal(struct {
		Content string `json:"content"`
	}{t.Content})
}

// ActionOutput is the result of one executed action.
type ActionOutput struct {
	Source   string `json:"source,omitempty"`
	Variable string `json:"variable,omitempty"`
	// Result is any JSON value. Nil means the field was absent.
	Result json.RawMessage `json:"result,omitempty"`
}

// HasResult reports whether the backend sent a result field, null included.
func (a *ActionOutput) HasResult() bool {
	return len(bytes.TrimSpace(a.Result)) > 0
}

// Control carries the step bookkeeping the planner attaches to each step.
type Control struct {
	ID          string   `json:"id,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty"`
	RefOutputAs string   `json:"ref_output_as,omitempty"`
}

// Argument is one named argument of an action request.
type Argument struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ActionRequest names the action a step wants to run.
type ActionRequest struct {
	ActionName      string     `json:"action_name,omitempty"`
	ActionArguments []Argument `json:"action_arguments,omitempty"`
}

// PlanStep is one step of a plan.
type PlanStep struct {
	Message       string         `json:"message,omitempty"`
	Intent        string         `json:"intent,omitempty"`
	ActionRequest *ActionRequest `json:"action_request,omitempty"`
	Control       *Control       `json:"control,omitempty"`
}

// Plan is the planner's output.
type Plan struct {
	Plans []PlanStep `json:"plans"`
}

// ExecutedStep is a plan step after execution.
type ExecutedStep struct {
	Message       string         `json:"message,omitempty"`
	Intent        string         `json:"intent,omitempty"`
	ActionRequest *ActionRequest `json:"action_request,omitempty"`
	ActionOutput  *ActionOutput  `json:"action_output,omitempty"`
	Control       *Control       `json:"control,omitempty"`
}

// Executed maps output keys to executed steps.
type Executed struct {
	Executed map[string]ExecutedStep `json:"executed"`
}

// ReflectionControl reports problems the reflector noticed.
type ReflectionControl struct {
	ErrorDetected     *bool  `json:"error_detected,omitempty"`
	ErrorReason       string `json:"error_reason,omitempty"`
	RecommendedAction string `json:"recommended_action,omitempty"`
}

// Reflection is the reflector's summary of an execution.
type Reflection struct {
	Summary string             `json:"summary,omitempty"`
	Control *ReflectionControl `json:"control,omitempty"`
}

// TextContent returns the model text if there is any.
func (r *AgentResponse) TextContent() (string, bool) {
	if r == nil || r.Text == nil || r.Text.Content == "" {
		return "", false
	}
	return r.Text.Content, true
}
