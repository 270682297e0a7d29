package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ModelConfig is the public part of an agent's model settings.
type ModelConfig struct {
	Name        string   `json:"name,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// TemperatureText renders the temperature with two decimals, or N/A.
func (m *ModelConfig) TemperatureText() string {
	if m == nil || m.Temperature == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*m.Temperature, 'f', 2, 64)
}

// MaxTokensText renders max tokens with thousands separators, or N/A.
func (m *ModelConfig) MaxTokensText() string {
	if m == nil || m.MaxTokens == nil {
		return "N/A"
	}
	return humanize.Comma(int64(*m.MaxTokens))
}

// NameText returns the model name, or N/A.
func (m *ModelConfig) NameText() string {
	if m == nil || m.Name == "" {
		return "N/A"
	}
	return m.Name
}

// AgentConfig is the configuration of one agent as exposed by the backend.
type AgentConfig struct {
	ModelConfig    *ModelConfig    `json:"model_config,omitempty"`
	Prompt         string          `json:"prompt,omitempty"`
	PromptContent  string          `json:"prompt_content,omitempty"`
	ResponseFormat json.RawMessage `json:"response_format,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// HasResponseFormat reports whether a non-null response format was sent.
func (a *AgentConfig) HasResponseFormat() bool {
	return truthy(gjson.ParseBytes(a.ResponseFormat))
}

// GlobalConfig is the aggregate configuration from GET /config/.
type GlobalConfig struct {
	// Model is global_model_config, nil when absent.
	Model *ModelConfig
	// Agents holds every other key as raw JSON in the order the backend sent it.
	Agents *orderedmap.OrderedMap[string, json.RawMessage]

	Raw json.RawMessage
}

const globalModelKey = "global_model_config"

func decodeGlobalConfig(data []byte) (GlobalConfig, error) {
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return GlobalConfig{}, fmt.Errorf("config is not a JSON object")
	}

	cfg := GlobalConfig{
		Agents: orderedmap.New[string, json.RawMessage](),
		Raw:    append(json.RawMessage(nil), data...),
	}
	var decodeErr error
	parsed.ForEach(func(key, value gjson.Result) bool {
		if key.String() == globalModelKey {
			if value.Type == gjson.Null {
				return true
			}
			var mc ModelConfig
			if err := json.Unmarshal([]byte(value.Raw), &mc); err != nil {
				decodeErr = fmt.Errorf("decode %s: %w", globalModelKey, err)
				return false
			}
			cfg.Model = &mc
			return true
		}
		cfg.Agents.Set(key.String(), json.RawMessage(value.Raw))
		return true
	})
	if decodeErr != nil {
		return GlobalConfig{}, decodeErr
	}
	return cfg, nil
}

func decodeAgentConfig(data []byte) (*AgentConfig, error) {
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("agent config is not a JSON object")
	}
	var cfg AgentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Raw = append(json.RawMessage(nil), data...)
	return &cfg, nil
}
