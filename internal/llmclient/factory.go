// internal/llmclient/factory.go
package llmclient

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
	"github.com/quiltline/stitch-cli/internal/config"
)

// NewClient constructs the LLM client for the configured oracle provider.
func NewClient(cfg config.LLMModelConfig, logger *zap.Logger) (schemas.LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(cfg, logger)
	case "":
		return nil, fmt.Errorf("oracle provider is not configured")
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %q", cfg.Provider)
	}
}
