package model

type MatchType string

const (
	MatchStrong MatchType = "strong"
	MatchWeak   MatchType = "weak"
	MatchNone   MatchType = "none"
)

type MatchRecord struct {
	SourceTopicID   string    `json:"source_topic_id"`
	TargetTopicID   string    `json:"target_topic_id,omitempty"`
	MatchType       MatchType `json:"match_type"`
	SimilarityScore float64   `json:"similarity_score"`
	Gaps            []string  `json:"gaps,omitempty"`
	Evidence        []Excerpt `json:"evidence,omitempty"`
}

// MatchSet is the outcome of aligning one topic set against another.
// UnmatchedTargets holds target topics no source picked as its best match.
type MatchSet struct {
	Records          []MatchRecord `json:"records"`
	UnmatchedTargets []Topic       `json:"unmatched_targets"`
}

// Suggestion is a document topic nothing in the course covers.
type Suggestion struct {
	Topic          Topic   `json:"topic"`
	BestScore      float64 `json:"best_score"`
	NearestTopicID string  `json:"nearest_topic_id,omitempty"`
}

type Report struct {
	Matches               []MatchRecord `json:"matches"`
	NewTopicSuggestions   []Suggestion  `json:"new_topic_suggestions"`
	UnmatchedCourseTopics []Topic       `json:"unmatched_course_topics"`
	UnmatchedTargets      []Topic       `json:"unmatched_targets"`

	CourseTopics   []Topic     `json:"course_topics"`
	DocumentTopics []Topic     `json:"document_topics"`
	Rejected       []Rejection `json:"rejected,omitempty"`
	Duplicates     []Duplicate `json:"duplicates,omitempty"`
}
