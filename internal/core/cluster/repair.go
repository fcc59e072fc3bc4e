package cluster

import (
	"fmt"
	"sort"

	"github.com/agenthands/syllabus/internal/core/model"
)

const MiscellaneousName = "Miscellaneous"

// Repair turns an untrusted proposal over n topics into a partition of
// {0..n-1}. The steps run in a fixed order so the same proposal always yields
// the same clusters:
//
//  0. indices outside [0, n) are dropped
//  1. indices no cluster claims are appended to the last cluster, or to a new
//     Miscellaneous cluster when there is none
//  2. an index claimed more than once stays in the first cluster only
//  3. clusters left empty are discarded
//
// The proposed cluster order is kept. Each fix is reported as a warning.
func Repair(n int, proposals []model.ClusterProposal) ([]model.ClusterProposal, []model.RepairWarning) {
	var warnings []model.RepairWarning

	clusters := make([]model.ClusterProposal, len(proposals))
	for i, p := range proposals {
		clusters[i] = model.ClusterProposal{Name: p.Name, Level: p.Level}

		var dropped []int
		for _, idx := range p.Indices {
			if idx < 0 || idx >= n {
				dropped = append(dropped, idx)
				continue
			}
			clusters[i].Indices = append(clusters[i].Indices, idx)
		}
		if len(dropped) > 0 {
			warnings = append(warnings, model.RepairWarning{
				Kind:    model.RepairOutOfRange,
				Cluster: p.Name,
				Indices: dropped,
				Detail:  fmt.Sprintf("valid indices are 0..%d", n-1),
			})
		}
	}

	claimed := make([]bool, n)
	for _, c := range clusters {
		for _, idx := range c.Indices {
			claimed[idx] = true
		}
	}
	var missing []int
	for idx, ok := range claimed {
		if !ok {
			missing = append(missing, idx)
		}
	}
	if len(missing) > 0 {
		if len(clusters) == 0 {
			clusters = append(clusters, model.ClusterProposal{Name: MiscellaneousName})
		}
		last := &clusters[len(clusters)-1]
		last.Indices = append(last.Indices, missing...)
		warnings = append(warnings, model.RepairWarning{
			Kind:    model.RepairMissingIndex,
			Cluster: last.Name,
			Indices: missing,
			Detail:  "unassigned topics appended to the last cluster",
		})
	}

	seen := make([]bool, n)
	for i := range clusters {
		c := &clusters[i]
		kept := c.Indices[:0]
		var removed []int
		for _, idx := range c.Indices {
			if seen[idx] {
				removed = append(removed, idx)
				continue
			}
			seen[idx] = true
			kept = append(kept, idx)
		}
		c.Indices = kept
		if len(removed) > 0 {
			warnings = append(warnings, model.RepairWarning{
				Kind:    model.RepairDuplicateIndex,
				Cluster: c.Name,
				Indices: removed,
				Detail:  "already assigned to an earlier cluster",
			})
		}
	}

	out := clusters[:0]
	for _, c := range clusters {
		if len(c.Indices) == 0 {
			warnings = append(warnings, model.RepairWarning{
				Kind:    model.RepairEmptyCluster,
				Cluster: c.Name,
				Detail:  "cluster discarded",
			})
			continue
		}
		sort.Ints(c.Indices)
		out = append(out, c)
	}

	return out, warnings
}
