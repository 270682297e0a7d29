package gateway

import (
	"github.com/tidwall/gjson"

	"github.com/zhubert/agentdeck/internal/logger"
)

// ActionArgument is one entry of an action's argument signature.
type ActionArgument struct {
	Name string
	Type string
}

// Action is a backend action the agent can run.
type Action struct {
	Name        string
	Description string
	Variable    string

	// HasSignature is set when the backend sent an argument signature, even
	// if it could not be parsed.
	HasSignature bool
	Arguments    []ActionArgument
	// RawSignature keeps a signature string that was not valid JSON.
	RawSignature string
}

// HasDetails reports whether there is anything to show beyond the name.
func (a Action) HasDetails() bool {
	return a.Description != "" || a.Variable != "" || a.HasSignature
}

// decodeActions accepts a list of plain names, action objects, or a mix.
// Anything that is not a list yields no actions.
func decodeActions(data []byte) []Action {
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return []Action{}
	}

	log := logger.WithComponent("Gateway")
	items := parsed.Array()
	actions := make([]Action, 0, len(items))
	for _, item := range items {
		switch {
		case item.Type == gjson.String:
			actions = append(actions, Action{Name: item.Str})
		case item.IsObject() && truthy(item.Get("name")):
			actions = append(actions, decodeAction(item))
		default:
			log.Warn("unexpected action format", "action", item.Raw)
			actions = append(actions, Action{Name: jsString(item)})
		}
	}
	return actions
}

func decodeAction(item gjson.Result) Action {
	a := Action{
		Name:        jsString(item.Get("name")),
		Description: stringField(item, "description"),
		Variable:    stringField(item, "variable"),
	}

	sig := item.Get("arguments_sig")
	if !truthy(sig) {
		return a
	}
	a.HasSignature = true

	var args gjson.Result
	switch {
	case sig.Type == gjson.String:
		if !gjson.Valid(sig.Str) {
			logger.WithComponent("Gateway").Warn("failed to parse arguments_sig", "action", a.Name, "sig", sig.Str)
			a.RawSignature = sig.Str
			return a
		}
		args = gjson.Parse(sig.Str)
	case sig.IsArray():
		args = sig
	}

	if !args.IsArray() {
		return a
	}
	for _, arg := range args.Array() {
		a.Arguments = append(a.Arguments, ActionArgument{
			Name: stringField(arg, "arg_name"),
			Type: stringField(arg, "arg_type"),
		})
	}
	return a
}

// stringField returns a truthy field as a string, else "".
func stringField(r gjson.Result, key string) string {
	v := r.Get(key)
	if !truthy(v) {
		return ""
	}
	return jsString(v)
}
