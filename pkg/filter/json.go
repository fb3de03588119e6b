package filter

import (
	"context"
	"encoding/json"
)

// JSONPretty re-indents a JSON document for display inside templates.
type JSONPretty struct{}

// NewJSONPretty returns the "json" filter.
func NewJSONPretty() Filter {
	return JSONPretty{}
}

func (JSONPretty) Name() string {
	return "json"
}

// Apply pretty-prints input with two-space indentation. Input that is not
// valid JSON is returned unchanged.
func (JSONPretty) Apply(_ context.Context, input string) string {
	var doc any
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		return input
	}

	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return input
	}

	return string(pretty)
}
