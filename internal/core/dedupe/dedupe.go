// Package dedupe removes near-duplicate topics from a single list.
package dedupe

import (
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/agenthands/syllabus/internal/core/model"
)

// DefaultSimilarityThreshold is the edit similarity at which two topics are
// considered the same. Empirically chosen; override through config.
const DefaultSimilarityThreshold = 0.8

// Detector keeps the first occurrence of every topic and drops later ones
// that are exact, substring or near (edit distance) duplicates of it.
//
// Every candidate is compared against every accepted topic, so cost is
// O(n*m). No bucketing is applied: which duplicate is found first only
// depends on input order.
type Detector struct {
	Threshold float64
	Logger    *zap.Logger
}

func NewDetector(threshold float64, logger *zap.Logger) *Detector {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{Threshold: threshold, Logger: logger}
}

// Dedupe wraps plain strings into generated topics and deduplicates them.
func (d *Detector) Dedupe(texts []string) model.DedupResult {
	topics := make([]model.Topic, len(texts))
	for i, t := range texts {
		topics[i] = model.Topic{ID: uuid.NewString(), Text: t}
	}
	return d.DedupeTopics(topics)
}

type accepted struct {
	key  string
	text string
}

// DedupeTopics keeps topics in input order, original text preserved.
func (d *Detector) DedupeTopics(topics []model.Topic) model.DedupResult {
	result := model.DedupResult{UniqueTopics: make([]model.Topic, 0, len(topics))}
	seen := make([]accepted, 0, len(topics))

	for _, t := range topics {
		key := Fold(t.Text)
		dup, ok := d.findDuplicate(key, seen)
		if ok {
			dup.Text = t.Text
			result.Duplicates = append(result.Duplicates, dup)
			continue
		}
		seen = append(seen, accepted{key: key, text: t.Text})
		result.UniqueTopics = append(result.UniqueTopics, t)
	}

	result.DuplicatesRemoved = len(result.Duplicates)
	if result.DuplicatesRemoved > 0 {
		d.Logger.Debug("removed duplicate topics",
			zap.Int("input", len(topics)),
			zap.Int("unique", len(result.UniqueTopics)),
			zap.Int("removed", result.DuplicatesRemoved))
	}
	return result
}

func (d *Detector) findDuplicate(key string, seen []accepted) (model.Duplicate, bool) {
	for _, a := range seen {
		if key == a.key {
			return model.Duplicate{DuplicateOf: a.text, Reason: model.DuplicateExact, Similarity: 1}, true
		}
		if strings.Contains(a.key, key) || strings.Contains(key, a.key) {
			return model.Duplicate{DuplicateOf: a.text, Reason: model.DuplicateSubstring, Similarity: similarity(key, a.key)}, true
		}
		if sim := similarity(key, a.key); sim >= d.Threshold {
			return model.Duplicate{DuplicateOf: a.text, Reason: model.DuplicateSimilar, Similarity: sim}, true
		}
	}
	return model.Duplicate{}, false
}

// Similarity is 1 - levenshtein(a,b)/max(len(a),len(b)) over the folded
// forms of a and b, counted in runes.
func Similarity(a, b string) float64 {
	return similarity(Fold(a), Fold(b))
}

func similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	dist := levenshtein.Distance(a, b, nil)
	return 1 - float64(dist)/float64(longest)
}

// Fold produces the case- and accent-insensitive comparison key of a topic.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
