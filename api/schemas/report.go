// api/schemas/report.go
package schemas

import "fmt"

// FileStatus describes the terminal state of one file's patch pass.
type FileStatus string

const (
	// StatusApplied means the patch validated on the first attempt.
	StatusApplied FileStatus = "applied"
	// StatusHealed means the patch was repaired by the oracle and then validated.
	StatusHealed FileStatus = "healed"
	// StatusDiscarded means validation failed twice; the file was left untouched.
	StatusDiscarded FileStatus = "discarded"
	// StatusUnchanged means no fix produced a text change for the file.
	StatusUnchanged FileStatus = "unchanged"
	// StatusError means the file could not be read or written.
	StatusError FileStatus = "error"
)

// FileResult records the outcome of a single file's patch pass.
type FileResult struct {
	Path         string     `json:"path"`
	Status       FileStatus `json:"status"`
	FixesApplied int        `json:"fixesApplied"`
	FixesSkipped int        `json:"fixesSkipped"`
	Errors       []string   `json:"errors,omitempty"`
}

// Report aggregates one pipeline run.
type Report struct {
	RunID      string       `json:"runId"`
	Root       string       `json:"root"`
	DryRun     bool         `json:"dryRun,omitempty"`
	Issues     int          `json:"issues"`
	Unresolved int          `json:"unresolved"`
	Files      []FileResult `json:"files"`
}

// EncodeReport renders the run report as indented JSON.
func EncodeReport(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}
