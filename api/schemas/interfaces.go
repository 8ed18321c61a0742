// api/schemas/interfaces.go
package schemas

import "context"

// ModelTier selects between a cheap/fast model and a more capable one.
type ModelTier string

const (
	TierFast     ModelTier = "fast"
	TierPowerful ModelTier = "powerful"
)

// GenerationOptions are advanced parameters for a single generation call.
type GenerationOptions struct {
	ForceJSONFormat bool    `json:"force_json_format"`
	Temperature     float32 `json:"temperature"`
}

// GenerationRequest is a provider-agnostic text generation request.
type GenerationRequest struct {
	SystemPrompt string            `json:"system_prompt"`
	UserPrompt   string            `json:"user_prompt"`
	Tier         ModelTier         `json:"tier"`
	Options      GenerationOptions `json:"options"`
}

// LLMClient defines a standard interface for interacting with a Large Language
// Model, abstracting the specifics of the underlying provider (e.g., Gemini).
// The auto-healer uses it as its text-repair oracle.
type LLMClient interface {
	// Generate produces a text completion based on the provided request.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	// Close cleans up any resources held by the client.
	Close() error
}
