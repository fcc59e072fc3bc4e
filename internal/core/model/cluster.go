package model

type Cluster struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Level        int    `json:"level"`
	TopicIndices []int  `json:"topic_indices"`
}

// ClusterProposal is a grouping as suggested by a collaborator, before any
// validation. Nothing about it is trusted.
type ClusterProposal struct {
	Name    string `json:"name"`
	Level   int    `json:"level,omitempty"`
	Indices []int  `json:"indices"`
}

type ClusterProposals struct {
	Clusters []ClusterProposal `json:"clusters"`
}

type RepairKind string

const (
	RepairOutOfRange          RepairKind = "out_of_range_index"
	RepairMissingIndex        RepairKind = "missing_index"
	RepairDuplicateIndex      RepairKind = "duplicate_index"
	RepairEmptyCluster        RepairKind = "empty_cluster"
	RepairProposalUnavailable RepairKind = "proposal_unavailable"
	RepairClusterCount        RepairKind = "cluster_count_out_of_range"
)

// RepairWarning is a non-fatal note that a cluster proposal needed fixing.
type RepairWarning struct {
	Kind    RepairKind `json:"kind"`
	Cluster string     `json:"cluster,omitempty"`
	Indices []int      `json:"indices,omitempty"`
	Detail  string     `json:"detail,omitempty"`
}

type ClusterResult struct {
	Clusters []Cluster       `json:"clusters"`
	Topics   []Topic         `json:"topics,omitempty"` // Topics the indices refer to
	Warnings []RepairWarning `json:"warnings,omitempty"`
	Skipped  bool            `json:"skipped"`

	Rejected   []Rejection `json:"rejected,omitempty"`
	Duplicates []Duplicate `json:"duplicates,omitempty"`
}

// Repaired reports whether the collaborator's proposal needed any fixing.
func (r *ClusterResult) Repaired() bool {
	return len(r.Warnings) > 0
}
