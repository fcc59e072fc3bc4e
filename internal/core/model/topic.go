package model

// SourceType records where a topic phrase was harvested from.
type SourceType string

const (
	SourceWeb       SourceType = "web"
	SourceDocument  SourceType = "document"
	SourceGenerated SourceType = "generated"
)

// Valid reports whether s is one of the known source types.
func (s SourceType) Valid() bool {
	switch s {
	case SourceWeb, SourceDocument, SourceGenerated:
		return true
	}
	return false
}

type Topic struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	SourceType SourceType        `json:"source_type"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Excerpts   []Excerpt         `json:"excerpts,omitempty"` // Chunks the topic was found in, already scored upstream
}

// Excerpt is a chunk of source material associated with a topic. Score is the
// relevance computed by whoever produced the chunk and is passed through as-is.
type Excerpt struct {
	Text   string  `json:"text"`
	Source string  `json:"source,omitempty"`
	Score  float64 `json:"score"`
}

type Embedding struct {
	TopicID string    `json:"topic_id"`
	Vector  []float32 `json:"vector"`
	Model   string    `json:"model"`
}

// Rejection records a raw string the normalizer refused, so callers can audit
// what never entered the pipeline.
type Rejection struct {
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

const (
	RejectTooShort   = "too_short"
	RejectTooLong    = "too_long"
	RejectURL        = "contains_url"
	RejectNoLetters  = "no_alphabetic"
	RejectEmptyInput = "empty"
)
