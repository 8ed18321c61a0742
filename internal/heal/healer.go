// internal/heal/healer.go
package heal

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
)

// Healer asks an external text-repair oracle to produce a corrected version
// of patched source that failed validation. It performs no repair logic
// itself; the caller re-validates the result exactly once and discards the
// patch on a second failure.
type Healer struct {
	logger *zap.Logger
	oracle schemas.LLMClient
}

func NewHealer(logger *zap.Logger, oracle schemas.LLMClient) *Healer {
	return &Healer{
		logger: logger.Named("healer"),
		oracle: oracle,
	}
}

const systemPrompt = `You are an expert front-end developer. You receive a source file that was just modified by an automated accessibility tool and no longer parses, together with the parser diagnostics. Return the corrected, complete file content. Preserve the intent of the modification and change as little as possible. Respond with the file content only: no explanation, no markdown fences.`

// Heal requests a repaired version of content. The returned text is the
// oracle's output with any markdown artifacts stripped; it has NOT been
// re-validated.
func (h *Healer) Heal(ctx context.Context, filePath, content string, errors []string) (string, error) {
	h.logger.Info("Requesting repair from oracle",
		zap.String("file", filePath), zap.Int("error_count", len(errors)))

	req := schemas.GenerationRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   buildPrompt(filePath, content, errors),
		Tier:         schemas.TierPowerful,
		Options: schemas.GenerationOptions{
			Temperature: 0.1, // High precision required for repairs.
		},
	}

	response, err := h.oracle.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("oracle generation failed: %w", err)
	}

	repaired := stripFences(response)
	if strings.TrimSpace(repaired) == "" {
		return "", fmt.Errorf("oracle returned empty content for %s", filePath)
	}
	return repaired, nil
}

func buildPrompt(filePath, content string, errors []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The file %s fails to parse after an automated edit.\n\n", filePath)
	b.WriteString("Parser diagnostics:\n")
	for _, e := range errors {
		fmt.Fprintf(&b, "  - %s\n", e)
	}
	fmt.Fprintf(&b, "\nCurrent file content:\n%s\n", content)
	b.WriteString("\nReturn the corrected, complete file content and nothing else.\n")
	return b.String()
}

// fenceRegex extracts content if the oracle wraps the file in markdown fences
// despite the instructions.
var fenceRegex = regexp.MustCompile("(?s)^```[a-zA-Z]*\\n(.*?)\\n?```\\s*$")

func stripFences(response string) string {
	trimmed := strings.TrimSpace(response)
	if matches := fenceRegex.FindStringSubmatch(trimmed); len(matches) > 1 {
		return matches[1]
	}
	return response
}
