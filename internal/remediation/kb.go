package remediation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sentinelstack/sentinel-rca/internal/models"
)

// FallbackCategory is the unconditional default entry. It must be the last
// entry of every knowledge base and carries no keywords.
const FallbackCategory = "unknown_error"

// Entry maps a keyword pattern to remediation guidance. Entries are static
// configuration: loaded once, read-only for the life of the process.
type Entry struct {
	Category                string          `yaml:"category"`
	Description             string          `yaml:"description"`
	Keywords                []string        `yaml:"keywords"`
	FixSteps                []string        `yaml:"fixSteps"`
	Priority                models.Priority `yaml:"priority"`
	EstimatedResolutionTime string          `yaml:"estimatedResolutionTime"`
}

// KnowledgeBase is an ordered, immutable table of remediation entries.
// Order is meaning: most specific categories come first and matching is
// first-hit, so reordering rows changes behaviour. Safe for concurrent reads.
type KnowledgeBase struct {
	entries []Entry
}

type kbFile struct {
	Entries []Entry `yaml:"entries"`
}

// NewKnowledgeBase loads a KB pack from the given YAML path, or the compiled-in
// default table when path is empty or the file does not exist.
func NewKnowledgeBase(path string, logger *slog.Logger) (*KnowledgeBase, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return newFromEntries(defaultEntries())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("knowledge base pack not found, using built-in table", slog.String("path", path))
			return newFromEntries(defaultEntries())
		}
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var file kbFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	logger.Info("loaded knowledge base pack", slog.String("path", path), slog.Int("entries", len(file.Entries)))
	return newFromEntries(file.Entries)
}

func newFromEntries(entries []Entry) (*KnowledgeBase, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("knowledge base has no entries")
	}

	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.Category == "" {
			return nil, fmt.Errorf("knowledge base entry %d has no category", i)
		}
		if _, dup := seen[e.Category]; dup {
			return nil, fmt.Errorf("duplicate knowledge base category %q", e.Category)
		}
		seen[e.Category] = struct{}{}

		if e.Category == FallbackCategory {
			if i != len(entries)-1 {
				return nil, fmt.Errorf("%s must be the last knowledge base entry", FallbackCategory)
			}
			if len(e.Keywords) != 0 {
				return nil, fmt.Errorf("%s must match unconditionally (no keywords)", FallbackCategory)
			}
			continue
		}
		if len(e.Keywords) == 0 {
			return nil, fmt.Errorf("knowledge base entry %q has no keywords", e.Category)
		}
		if !validPriority(e.Priority) {
			return nil, fmt.Errorf("knowledge base entry %q has invalid priority %q", e.Category, e.Priority)
		}
	}
	if entries[len(entries)-1].Category != FallbackCategory {
		return nil, fmt.Errorf("knowledge base must end with the %s fallback", FallbackCategory)
	}

	return &KnowledgeBase{entries: entries}, nil
}

// Entries returns the table in its fixed evaluation order.
func (kb *KnowledgeBase) Entries() []Entry {
	out := make([]Entry, len(kb.entries))
	copy(out, kb.entries)
	return out
}

// Categories lists all category identifiers in table order.
func (kb *KnowledgeBase) Categories() []string {
	cats := make([]string, 0, len(kb.entries))
	for _, e := range kb.entries {
		cats = append(cats, e.Category)
	}
	return cats
}

// Lookup returns the entry for an exact category name.
func (kb *KnowledgeBase) Lookup(category string) (Entry, bool) {
	for _, e := range kb.entries {
		if e.Category == category {
			return e, true
		}
	}
	return Entry{}, false
}

func validPriority(p models.Priority) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
		return true
	}
	return false
}
