// Package normalizer canonicalizes free-text station names.
package normalizer

import (
	"strings"

	"go.uber.org/zap"

	"tollgrid/core/source"
	"tollgrid/internal/errors"
	"tollgrid/internal/logging"
)

var punctuation = strings.NewReplacer(
	"-", " ",
	"/", " ",
	"'", " ",
)

// NameNormalizer maps raw station names to canonical ones.
// It is immutable once built and safe for concurrent use.
type NameNormalizer struct {
	aliases map[string]string
}

// New builds a normalizer from an in-memory alias table
func New(aliases map[string]string) *NameNormalizer {
	copied := make(map[string]string, len(aliases))
	for k, v := range aliases {
		copied[k] = v
	}
	return &NameNormalizer{aliases: copied}
}

// Load reads a two-column "alias,canonical" list. Lines that do not split
// into exactly two columns are logged and skipped. An unreadable file is a
// startup error: every price key depends on consistent normalization.
func Load(path string, opts source.Options) (*NameNormalizer, error) {
	lines, err := source.ReadLines(path, opts)
	if err != nil {
		return nil, errors.Startup("cannot read alias file "+path, err)
	}

	aliases := make(map[string]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		columns := strings.Split(line, ",")
		if len(columns) != 2 {
			logging.Warn("invalid alias line",
				logging.File(path),
				zap.Int("line", i+1),
				zap.String("content", line))
			continue
		}
		aliases[columns[0]] = columns[1]
	}

	logging.Info("alias table loaded", logging.File(path), zap.Int("aliases", len(aliases)))
	return &NameNormalizer{aliases: aliases}, nil
}

// Normalize upper-cases name, turns " - ", " / " and any remaining "-", "/",
// "'" into single spaces, then substitutes an exact alias match.
func (n *NameNormalizer) Normalize(name string) string {
	normalized := strings.ToUpper(name)
	// " - " first, then " / ", so that "A / - B" collapses to "A B"
	normalized = strings.ReplaceAll(normalized, " - ", " ")
	normalized = strings.ReplaceAll(normalized, " / ", " ")
	normalized = punctuation.Replace(normalized)
	if canonical, ok := n.aliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// Aliases returns the number of aliases
func (n *NameNormalizer) Aliases() int {
	return len(n.aliases)
}
