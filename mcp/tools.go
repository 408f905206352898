package mcp

import (
	"context"
	"encoding/json"
	"strings"
)

// longTermKeysURI is the resource listing every long-term key.
const longTermKeysURI = "memory://long-term/keys"

var (
	keyProp       = map[string]any{"type": "string", "description": "Memory key"}
	shortTermProp = map[string]any{"type": "boolean", "description": "true for short-term (session) memory, false for long-term memory"}
)

func toolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "remember",
			Description: "Store a JSON value under a key in short-term or long-term memory. Overwrites any previous value.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"key":        keyProp,
					"value":      map[string]any{"description": "Any JSON value"},
					"short_term": shortTermProp,
				},
				"required": []string{"key", "value"},
			},
		},
		{
			Name:        "recall",
			Description: `Look up a key. Returns {"found":true,"value":...} or {"found":false}.`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"key":        keyProp,
					"short_term": shortTermProp,
				},
				"required": []string{"key"},
			},
		},
		{
			Name:        "clear_short_term",
			Description: "Forget everything in short-term memory. Long-term memory is untouched.",
			InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		},
		{
			Name:        "clear_long_term",
			Description: "Forget one key in long-term memory.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"key": keyProp},
				"required":   []string{"key"},
			},
		},
	}
}

type keyArgs struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	ShortTerm bool            `json:"short_term"`
}

func parseKeyArgs(raw json.RawMessage, needValue bool) (keyArgs, string) {
	var a keyArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a); err != nil {
			return a, "invalid arguments: " + err.Error()
		}
	}
	if strings.TrimSpace(a.Key) == "" {
		return a, "key is required"
	}
	if needValue && len(a.Value) == 0 {
		return a, "value is required"
	}
	return a, ""
}

func (s *Server) callTool(ctx context.Context, name string, raw json.RawMessage) ToolResult {
	switch name {
	case "remember":
		a, msg := parseKeyArgs(raw, true)
		if msg != "" {
			return errorResult(msg)
		}
		var v any
		if err := json.Unmarshal(a.Value, &v); err != nil {
			return errorResult("invalid value: " + err.Error())
		}
		if err := s.mem.Remember(ctx, a.Key, v, a.ShortTerm); err != nil {
			return errorResult(err.Error())
		}
		return textResult("ok")

	case "recall":
		a, msg := parseKeyArgs(raw, false)
		if msg != "" {
			return errorResult(msg)
		}
		v, found, err := s.mem.Recall(ctx, a.Key, a.ShortTerm)
		if err != nil {
			return errorResult(err.Error())
		}
		out := map[string]any{"found": found}
		if found {
			out["value"] = v
		}
		data, err := json.Marshal(out)
		if err != nil {
			return errorResult("encode result: " + err.Error())
		}
		return textResult(string(data))

	case "clear_short_term":
		if err := s.mem.ClearShortTerm(ctx); err != nil {
			return errorResult(err.Error())
		}
		return textResult("ok")

	case "clear_long_term":
		a, msg := parseKeyArgs(raw, false)
		if msg != "" {
			return errorResult(msg)
		}
		if err := s.mem.ClearLongTerm(ctx, a.Key); err != nil {
			return errorResult(err.Error())
		}
		return textResult("ok")
	}
	return errorResult("unknown tool: " + name)
}
