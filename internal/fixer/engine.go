// internal/fixer/engine.go
// The fixer drives the full localize, patch, validate, heal pipeline for a
// batch of issues against one source tree. It is deliberately sequential: the
// workloads are small (a handful of files per run) and sequential application
// keeps the per-file before/after story trivial to report.
package fixer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
	"github.com/quiltline/stitch-cli/internal/config"
	"github.com/quiltline/stitch-cli/internal/heal"
	"github.com/quiltline/stitch-cli/internal/locate"
	"github.com/quiltline/stitch-cli/internal/patch"
	"github.com/quiltline/stitch-cli/internal/validate"
)

// Engine applies a batch of issues to the source tree rooted at a directory.
type Engine struct {
	logger    *zap.Logger
	searcher  *locate.Searcher
	validator *validate.Validator
	healer    *heal.Healer // nil when the oracle is disabled
	dryRun    bool
}

// NewEngine wires the pipeline. healer may be nil; validation failures then
// discard the patch without a repair attempt.
func NewEngine(logger *zap.Logger, cfg *config.Config, healer *heal.Healer) *Engine {
	return &Engine{
		logger:    logger.Named("fixer"),
		searcher:  locate.NewSearcher(logger, cfg.Search),
		validator: validate.NewValidator(logger),
		healer:    healer,
		dryRun:    cfg.Patch.DryRun,
	}
}

// Run localizes every issue, groups the resolved fixes per file and patches
// each file through the validate/heal gate. The returned report always covers
// every touched file, including discards.
func (e *Engine) Run(ctx context.Context, issues []schemas.Issue, rootDir string) (*schemas.Report, error) {
	report := &schemas.Report{
		RunID:  uuid.NewString(),
		Root:   rootDir,
		DryRun: e.dryRun,
		Issues: len(issues),
	}

	byFile := make(map[string][]*schemas.Fix)
	for i := range issues {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		issue := &issues[i]
		fix := &issue.Fix
		loc, err := e.resolve(issue, rootDir)
		if err != nil {
			e.logger.Warn("Failed to localize issue",
				zap.String("issue", issue.ID), zap.Error(err))
			report.Unresolved++
			continue
		}
		if loc == nil {
			e.logger.Warn("No source match for issue",
				zap.String("issue", issue.ID), zap.String("tag", issue.Signature.Tag))
			report.Unresolved++
			continue
		}
		fix.SetLocation(loc)
		byFile[loc.Source] = append(byFile[loc.Source], fix)
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Files = append(report.Files, e.patchFile(ctx, rootDir, rel, byFile[rel]))
	}
	return report, nil
}

// resolve pins an issue's fix to a source location. An already-resolved fix is
// trusted as-is; otherwise the signature search runs first and the CSS
// selector is the fallback.
func (e *Engine) resolve(issue *schemas.Issue, rootDir string) (*schemas.SourceLocation, error) {
	if loc := issue.Fix.Location(); loc != nil && loc.Source != "" {
		return loc, nil
	}

	result, err := e.searcher.Find(&issue.Signature, rootDir)
	if err != nil {
		return nil, err
	}
	if result == nil && issue.Fix.Selector != "" {
		sel := issue.Fix.Selector
		if strings.HasPrefix(sel, "/") || strings.HasPrefix(sel, "(") {
			result, err = e.searcher.FindByXPath(sel, rootDir)
		} else {
			result, err = e.searcher.FindBySelector(sel, rootDir)
		}
		if err != nil {
			e.logger.Warn("Selector fallback failed",
				zap.String("selector", sel), zap.Error(err))
		}
	}
	if result == nil {
		return nil, nil
	}
	return result.SourceLocation(), nil
}

// patchFile applies the file's fixes and runs the result through the
// validate/heal gate. The file on disk only changes when the final text
// validated, and writes go through a temp file plus rename.
func (e *Engine) patchFile(ctx context.Context, rootDir, rel string, fixes []*schemas.Fix) schemas.FileResult {
	res := schemas.FileResult{Path: rel}
	abs := filepath.Join(rootDir, rel)

	original, err := os.ReadFile(abs)
	if err != nil {
		res.Status = schemas.StatusError
		res.Errors = append(res.Errors, fmt.Sprintf("read: %v", err))
		return res
	}

	strategy := patch.ForFile(rel, e.logger)
	if strategy == nil {
		res.Status = schemas.StatusError
		res.Errors = append(res.Errors, fmt.Sprintf("no patch strategy for %s", rel))
		res.FixesSkipped = len(fixes)
		return res
	}

	patched, outcome := strategy.ApplyFixes(string(original), fixes)
	res.FixesApplied = outcome.Applied
	res.FixesSkipped = outcome.Skipped

	if patched == string(original) {
		res.Status = schemas.StatusUnchanged
		return res
	}

	status := schemas.StatusApplied
	verdict := e.validator.Validate(rel, patched)
	if !verdict.Valid {
		patched, verdict = e.heal(ctx, rel, patched, verdict)
		if !verdict.Valid {
			e.logger.Warn("Discarding patch after failed validation",
				zap.String("file", rel), zap.Strings("errors", verdict.Errors))
			res.Status = schemas.StatusDiscarded
			res.Errors = verdict.Errors
			return res
		}
		status = schemas.StatusHealed
	}

	if !e.dryRun {
		if err := writeAtomic(abs, []byte(patched)); err != nil {
			res.Status = schemas.StatusError
			res.Errors = append(res.Errors, fmt.Sprintf("write: %v", err))
			return res
		}
	}
	res.Status = status
	return res
}

// heal runs the single oracle repair attempt and re-validates the result. With
// no oracle configured the original failing verdict passes straight through.
func (e *Engine) heal(ctx context.Context, rel, content string, failed validate.Result) (string, validate.Result) {
	if e.healer == nil {
		return content, failed
	}
	e.logger.Info("Patched file failed validation, attempting heal",
		zap.String("file", rel), zap.Int("errors", len(failed.Errors)))

	repaired, err := e.healer.Heal(ctx, rel, content, failed.Errors)
	if err != nil {
		e.logger.Warn("Heal attempt failed", zap.String("file", rel), zap.Error(err))
		return content, failed
	}
	return repaired, e.validator.Validate(rel, repaired)
}

// writeAtomic replaces path's content via a sibling temp file and rename,
// preserving the original file mode.
func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set temp file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
