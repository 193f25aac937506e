package output

import (
	"encoding/json"
	"os"

	"github.com/grafana/resolveref"
)

// JSONFormatter outputs in JSON format
type JSONFormatter struct {
	encoder    *json.Encoder
	errEncoder *json.Encoder
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return &JSONFormatter{
		encoder:    enc,
		errEncoder: json.NewEncoder(os.Stderr),
	}
}

// resultOutput represents a resolved ref for JSON output
type resultOutput struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Ref   string `json:"ref,omitempty"`
	SHA   string `json:"sha"`
	FQRef string `json:"fqRef"`
}

// errorOutput represents a failure for JSON output
type errorOutput struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Status int    `json:"status,omitempty"`
}

// FormatResult outputs a resolved ref in JSON format
func (f *JSONFormatter) FormatResult(q resolveref.RefQuery, result resolveref.Result) error {
	return f.encoder.Encode(resultOutput{
		Owner: q.Owner,
		Repo:  q.Repo,
		Ref:   q.Ref,
		SHA:   result.SHA,
		FQRef: result.FQRef,
	})
}

// FormatFailure outputs a failed outcome in JSON format
func (f *JSONFormatter) FormatFailure(q resolveref.RefQuery, out resolveref.Outcome) error {
	return f.errEncoder.Encode(errorOutput{
		Error:  Describe(q, out),
		Kind:   out.Kind.String(),
		Status: out.StatusCode,
	})
}

// FormatError outputs an error in JSON format
func (f *JSONFormatter) FormatError(err error) error {
	return f.errEncoder.Encode(errorOutput{Error: err.Error()})
}
