// api/schemas/schemas.go
// Boundary contracts shared between the rule engine, the localization core and
// the patch pipeline. These records are JSON-shaped and consumed verbatim.
package schemas

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Signature is an immutable description of a DOM element captured at detection
// time by the rule engine. Only Tag is required; everything else is evidence
// that may or may not survive the round trip back to the source tree.
type Signature struct {
	Tag        string            `json:"tag"`
	Text       string            `json:"text,omitempty"`
	Classes    []string          `json:"classes,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	// Structure lists ancestor tags, outermost first.
	Structure []string          `json:"structure,omitempty"`
	Context   *SignatureContext `json:"context,omitempty"`
}

// SignatureContext carries coarse hints about where the element lives on the
// rendered page. It is informational; the scorer does not weigh it.
type SignatureContext struct {
	Landmark   string `json:"landmark,omitempty"`
	Component  string `json:"component,omitempty"`
	NearbyText string `json:"nearbyText,omitempty"`
}

// FixType enumerates the supported edit instructions.
type FixType string

const (
	FixAddAttribute     FixType = "add-attribute"
	FixReplaceAttribute FixType = "replace-attribute"
	FixAddElement       FixType = "add-element"
	FixConvertTag       FixType = "convert-tag"
)

// Position is a point in a source file: 1-based line, 0-based byte column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SourceLocation pins a fix to a concrete element in a concrete file. Once
// set it is authoritative over the fix's Selector.
type SourceLocation struct {
	Source  string    `json:"source"`
	Line    int       `json:"line"`
	Column  int       `json:"column"`
	Closing *Position `json:"closingLocation,omitempty"`
}

// FixPayload carries the type-specific parameters of a fix. Attribute/Value
// serve add-attribute and replace-attribute; TagName plus Attributes serve
// convert-tag; Element/Insert serve add-element.
type FixPayload struct {
	Attribute  string            `json:"attribute,omitempty"`
	Value      string            `json:"value,omitempty"`
	TagName    string            `json:"tagName,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	// Element is raw markup for add-element; Insert is "before" (default)
	// or "after" relative to the target element.
	Element string `json:"element,omitempty"`
	Insert  string `json:"insert,omitempty"`
}

// FixMetadata holds fields populated by the core while a fix moves through
// the pipeline, most importantly the resolved source location.
type FixMetadata struct {
	SourceLocation *SourceLocation `json:"sourceLocation,omitempty"`
	RuleID         string          `json:"ruleId,omitempty"`
}

// Fix is a single edit instruction targeting a single element. A fix is
// applied at most once to the element it describes.
type Fix struct {
	Type     FixType      `json:"fixType"`
	Selector string       `json:"selector,omitempty"`
	Payload  FixPayload   `json:"payload"`
	Metadata *FixMetadata `json:"metadata,omitempty"`
}

// Location returns the resolved source location, or nil when the searcher has
// not (or could not) pin the fix to a file.
func (f *Fix) Location() *SourceLocation {
	if f.Metadata == nil {
		return nil
	}
	return f.Metadata.SourceLocation
}

// SetLocation records the resolved location, allocating metadata on demand.
func (f *Fix) SetLocation(loc *SourceLocation) {
	if f.Metadata == nil {
		f.Metadata = &FixMetadata{}
	}
	f.Metadata.SourceLocation = loc
}

// Issue pairs the signature captured from the rendered page with the fix the
// rule engine wants applied to that element.
type Issue struct {
	ID        string    `json:"id,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Signature Signature `json:"signature"`
	Fix       Fix       `json:"fix"`
}

// DecodeIssues parses the rule engine's output. A top-level array and an
// {"issues": [...]} envelope are both accepted.
func DecodeIssues(data []byte) ([]Issue, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("empty issue document")
	}

	if strings.HasPrefix(trimmed, "[") {
		var issues []Issue
		if err := json.Unmarshal(data, &issues); err != nil {
			return nil, fmt.Errorf("failed to decode issue array: %w", err)
		}
		return issues, nil
	}

	var envelope struct {
		Issues []Issue `json:"issues"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode issue envelope: %w", err)
	}
	return envelope.Issues, nil
}

// DecodeSignature parses a standalone signature document.
func DecodeSignature(data []byte) (*Signature, error) {
	var sig Signature
	if err := json.Unmarshal(data, &sig); err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	if sig.Tag == "" {
		return nil, fmt.Errorf("signature is missing the required 'tag' field")
	}
	return &sig, nil
}
