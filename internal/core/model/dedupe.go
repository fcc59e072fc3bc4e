package model

type DuplicateReason string

const (
	DuplicateExact     DuplicateReason = "exact"
	DuplicateSubstring DuplicateReason = "substring"
	DuplicateSimilar   DuplicateReason = "similar"
)

type Duplicate struct {
	Text        string          `json:"text"`
	DuplicateOf string          `json:"duplicate_of"` // Text of the accepted topic it collided with
	Reason      DuplicateReason `json:"reason"`
	Similarity  float64         `json:"similarity"`
}

type DedupResult struct {
	UniqueTopics      []Topic     `json:"unique_topics"`
	DuplicatesRemoved int         `json:"duplicates_removed"`
	Duplicates        []Duplicate `json:"duplicates,omitempty"`
}
