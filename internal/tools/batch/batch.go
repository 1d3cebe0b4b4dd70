package batch

import (
	"encoding/json"
	"fmt"
)

// TargetResult is the outcome of one delivery in a fan-out operation.
type TargetResult struct {
	Target string `json:"target"`
	Status string `json:"status"` // "success" or "error"
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Summary aggregates the per-target outcomes of a fan-out operation.
type Summary struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Results   []TargetResult `json:"results"`
}

// Targets parses a tool parameter that addresses either one target or
// several, such as the space parameter of chat_send_message. It accepts a
// single string or an array of strings.
func Targets(param interface{}, name string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", name)
	}

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", name)
		}
		return []string{v}, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", name)
		}
		targets := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", name, i)
			}
			if s == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", name, i)
			}
			targets = append(targets, s)
		}
		return targets, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", name)
	}
}

// Deliver runs deliver against every target in order and collects the
// outcomes. A failed target does not stop the remaining deliveries.
func Deliver(targets []string, deliver func(target string) (string, error)) Summary {
	summary := Summary{
		Total:   len(targets),
		Results: make([]TargetResult, 0, len(targets)),
	}

	for _, target := range targets {
		detail, err := deliver(target)
		if err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, TargetResult{
				Target: target,
				Status: "error",
				Error:  err.Error(),
			})
			continue
		}
		summary.Succeeded++
		summary.Results = append(summary.Results, TargetResult{
			Target: target,
			Status: "success",
			Detail: detail,
		})
	}

	return summary
}

// JSON renders the summary as indented JSON for tool output.
func (s Summary) JSON() string {
	b, _ := json.MarshalIndent(s, "", "  ")
	return string(b)
}
