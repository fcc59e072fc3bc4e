// Package match aligns one embedded topic set against another and classifies
// each best pair into strong, weak or no match.
package match

import (
	"fmt"
	"math"
	"sort"

	"github.com/agenthands/syllabus/internal/core/model"
)

const (
	DefaultStrongThreshold = 0.75
	DefaultWeakThreshold   = 0.60
	DefaultMaxEvidence     = 5
)

// Item is a topic together with its embedding.
type Item struct {
	Topic  model.Topic
	Vector []float32
}

type Matcher struct {
	StrongThreshold float64
	WeakThreshold   float64
	MaxEvidence     int
}

func NewMatcher(strong, weak float64, maxEvidence int) (*Matcher, error) {
	if weak < 0 || strong > 1 || weak > strong {
		return nil, &model.ValidationError{
			Field:  "thresholds",
			Reason: fmt.Sprintf("need 0 <= weak (%.2f) <= strong (%.2f) <= 1", weak, strong),
		}
	}
	if maxEvidence < 0 {
		maxEvidence = DefaultMaxEvidence
	}
	return &Matcher{StrongThreshold: strong, WeakThreshold: weak, MaxEvidence: maxEvidence}, nil
}

// Match produces exactly one record per source item, holding its single best
// target. Ties go to the target that appears first. Targets that no source
// picked as a strong or weak best match are returned as unmatched.
func (m *Matcher) Match(source, target []Item) model.MatchSet {
	set := model.MatchSet{Records: make([]model.MatchRecord, 0, len(source))}
	chosen := make([]bool, len(target))

	for _, s := range source {
		best, bestScore := -1, 0.0
		for j, t := range target {
			score := CosineSimilarity(s.Vector, t.Vector)
			if best == -1 || score > bestScore {
				best, bestScore = j, score
			}
		}

		rec := model.MatchRecord{
			SourceTopicID:   s.Topic.ID,
			MatchType:       model.MatchNone,
			SimilarityScore: bestScore,
		}
		if best >= 0 {
			rec.MatchType = Classify(bestScore, m.StrongThreshold, m.WeakThreshold)
		}
		if rec.MatchType != model.MatchNone {
			rec.TargetTopicID = target[best].Topic.ID
			chosen[best] = true
		}
		if rec.MatchType == model.MatchStrong {
			rec.Evidence = topExcerpts(target[best].Topic.Excerpts, m.MaxEvidence)
		}
		set.Records = append(set.Records, rec)
	}

	for j, t := range target {
		if !chosen[j] {
			set.UnmatchedTargets = append(set.UnmatchedTargets, t.Topic)
		}
	}
	return set
}

// Classify maps a similarity score onto a match tier.
func Classify(score, strong, weak float64) model.MatchType {
	switch {
	case score >= strong:
		return model.MatchStrong
	case score >= weak:
		return model.MatchWeak
	default:
		return model.MatchNone
	}
}

// CosineSimilarity returns dot(a,b)/(|a||b|) clamped to [0,1]. Vectors with
// zero norm, different lengths or non-finite values score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	switch {
	case math.IsNaN(sim) || sim < 0:
		return 0
	case sim > 1:
		return 1
	}
	return sim
}

// topExcerpts passes through the upstream relevance scores, highest first.
func topExcerpts(excerpts []model.Excerpt, limit int) []model.Excerpt {
	if len(excerpts) == 0 || limit == 0 {
		return nil
	}
	sorted := append([]model.Excerpt(nil), excerpts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
