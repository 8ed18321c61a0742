// internal/locate/searcher.go
package locate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/quiltline/stitch-cli/api/schemas"
	"github.com/quiltline/stitch-cli/internal/config"
)

// Searcher enumerates candidate files under a root, runs the matching
// extractor on each and returns the single highest-scoring candidate for a
// signature. It is a full linear scan per signature: correctness over speed.
type Searcher struct {
	logger     *zap.Logger
	extensions map[string]bool
	excluded   map[string]bool
}

func NewSearcher(logger *zap.Logger, cfg config.SearchConfig) *Searcher {
	s := &Searcher{
		logger:     logger.Named("searcher"),
		extensions: make(map[string]bool, len(cfg.Extensions)),
		excluded:   make(map[string]bool, len(cfg.ExcludeDirs)),
	}
	for _, ext := range cfg.Extensions {
		s.extensions[strings.ToLower(ext)] = true
	}
	for _, dir := range cfg.ExcludeDirs {
		s.excluded[dir] = true
	}
	return s
}

// Find returns the best match for sig under rootDir, or nil when no candidate
// scored above zero. Ties break deterministically: shortest file path, then
// lexical path order, then smallest line number.
func (s *Searcher) Find(sig *schemas.Signature, rootDir string) (*SearchResult, error) {
	var best *SearchResult

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("Skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if s.excluded[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !s.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			rel = path
		}
		if result := s.bestInFile(sig, path, rel); result != nil && better(result, best) {
			best = result
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source tree %s: %w", rootDir, err)
	}

	if best != nil {
		s.logger.Debug("Signature resolved",
			zap.String("tag", sig.Tag), zap.String("match", best.String()))
	}
	return best, nil
}

// FindBySelector resolves a CSS selector against the static HTML files under
// rootDir. It is the fallback path for fixes that carry no resolved source
// location; the first file containing a selector match wins.
func (s *Searcher) FindBySelector(selector, rootDir string) (*SearchResult, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	var found *SearchResult
	walkErr := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != nil {
			if d != nil && d.IsDir() && err != nil {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if s.excluded[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".html" && ext != ".htm" {
			return nil
		}

		text, readErr := os.ReadFile(path)
		if readErr != nil {
			s.logger.Warn("Skipping unreadable file", zap.String("file", path), zap.Error(readErr))
			return nil
		}
		doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(string(text)))
		if parseErr != nil {
			s.logger.Warn("Skipping unparseable HTML file", zap.String("file", path), zap.Error(parseErr))
			return nil
		}
		sel := doc.FindMatcher(matcher)
		if sel.Length() == 0 {
			return nil
		}

		// The parsed document has no offsets; re-derive a signature from the
		// matched node and let the scorer pin it to a scanned candidate.
		sig := signatureFromNode(sel.Nodes[0])

		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			rel = path
		}
		if result := s.bestInFile(sig, path, rel); result != nil && better(result, found) {
			found = result
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk source tree %s: %w", rootDir, walkErr)
	}
	return found, nil
}

// FindByXPath resolves an XPath expression against the static HTML files
// under rootDir, mirroring FindBySelector for rule engines that emit XPath
// instead of CSS selectors.
func (s *Searcher) FindByXPath(expr, rootDir string) (*SearchResult, error) {
	var found *SearchResult
	var exprErr error

	walkErr := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != nil || exprErr != nil {
			if d != nil && d.IsDir() && err != nil {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if s.excluded[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".html" && ext != ".htm" {
			return nil
		}

		text, readErr := os.ReadFile(path)
		if readErr != nil {
			s.logger.Warn("Skipping unreadable file", zap.String("file", path), zap.Error(readErr))
			return nil
		}
		doc, parseErr := htmlquery.Parse(strings.NewReader(string(text)))
		if parseErr != nil {
			s.logger.Warn("Skipping unparseable HTML file", zap.String("file", path), zap.Error(parseErr))
			return nil
		}
		node, queryErr := htmlquery.Query(doc, expr)
		if queryErr != nil {
			exprErr = fmt.Errorf("invalid xpath %q: %w", expr, queryErr)
			return nil
		}
		if node == nil || node.Type != html.ElementNode {
			return nil
		}

		sig := signatureFromNode(node)
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			rel = path
		}
		if result := s.bestInFile(sig, path, rel); result != nil && better(result, found) {
			found = result
		}
		return nil
	})
	if exprErr != nil {
		return nil, exprErr
	}
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk source tree %s: %w", rootDir, walkErr)
	}
	return found, nil
}

// signatureFromNode derives a scoring signature from a parsed document node.
func signatureFromNode(node *html.Node) *schemas.Signature {
	sig := &schemas.Signature{Tag: node.Data, Attributes: map[string]string{}}
	for _, a := range node.Attr {
		if a.Key == "class" {
			sig.Classes = strings.Fields(a.Val)
			continue
		}
		sig.Attributes[a.Key] = a.Val
	}
	return sig
}

// bestInFile scores sig against one file's scanned candidates and returns the
// best positive match, or nil.
func (s *Searcher) bestInFile(sig *schemas.Signature, path, rel string) *SearchResult {
	var best *SearchResult
	for _, cand := range s.extractFile(path, rel) {
		c := cand
		score := Score(sig, &c)
		if score <= 0 {
			continue
		}
		result := &SearchResult{
			File:   rel,
			Line:   c.Location.Line,
			Column: c.Location.Column,
			Score:  score,
			Node:   c,
		}
		if better(result, best) {
			best = result
		}
	}
	return best
}

// extractFile reads and parses one file. Failures are logged, never fatal:
// the file then contributes zero candidates.
func (s *Searcher) extractFile(path, rel string) []CandidateNode {
	extractor := ForFile(path, s.logger)
	if extractor == nil {
		return nil
	}
	text, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("Skipping unreadable file", zap.String("file", rel), zap.Error(err))
		return nil
	}
	candidates, err := extractor.Extract(string(text), rel)
	if err != nil {
		s.logger.Warn("Skipping unparseable file", zap.String("file", rel), zap.Error(err))
		return nil
	}
	return candidates
}

// better reports whether cand should replace best under the deterministic
// tie-break policy.
func better(cand, best *SearchResult) bool {
	if best == nil {
		return true
	}
	if cand.Score != best.Score {
		return cand.Score > best.Score
	}
	if len(cand.File) != len(best.File) {
		return len(cand.File) < len(best.File)
	}
	if cand.File != best.File {
		return cand.File < best.File
	}
	return cand.Line < best.Line
}
