// Package cluster groups a topic list into ordered thematic modules. The
// grouping comes from a collaborator and is repaired until it partitions the
// input.
package cluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/syllabus/internal/config"
	"github.com/agenthands/syllabus/internal/core/common"
	"github.com/agenthands/syllabus/internal/core/model"
	"github.com/agenthands/syllabus/internal/llm"
)

// Proposer suggests clusters of topic indices, aiming for between minClusters
// and maxClusters groups. Its output is not trusted.
type Proposer interface {
	Propose(ctx context.Context, topics []model.Topic, minClusters, maxClusters int) ([]model.ClusterProposal, error)
}

// LLMProposer asks a generative collaborator for the grouping.
type LLMProposer struct {
	LLM           llm.LLMClient
	Prompt        string // fmt format string taking min, max and the topic list
	MinClusters   int
	MaxClusters   int
	MaxTopicChars int
}

func NewLLMProposer(llmClient llm.LLMClient, cfg config.ClusteringConfig, prompt string) *LLMProposer {
	if prompt == "" {
		prompt = config.DefaultClustersPrompt
	}
	return &LLMProposer{
		LLM:           llmClient,
		Prompt:        prompt,
		MinClusters:   cfg.MinClusters,
		MaxClusters:   cfg.MaxClusters,
		MaxTopicChars: cfg.MaxTopicChars,
	}
}

// Propose asks for a grouping within the given count range. Zero bounds use
// the configured ones.
func (p *LLMProposer) Propose(ctx context.Context, topics []model.Topic, minClusters, maxClusters int) ([]model.ClusterProposal, error) {
	if p.LLM == nil {
		return nil, fmt.Errorf("no generative client configured")
	}
	if minClusters <= 0 {
		minClusters = p.MinClusters
	}
	if maxClusters <= 0 {
		maxClusters = p.MaxClusters
	}

	var list strings.Builder
	for i, t := range topics {
		fmt.Fprintf(&list, "[%d] %s\n", i, common.Truncate(t.Text, p.MaxTopicChars))
	}
	prompt := fmt.Sprintf(p.Prompt, minClusters, maxClusters, list.String())

	response, err := p.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate clusters: %w", err)
	}

	result, err := common.ParseJSON[model.ClusterProposals](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse clusters: %w", err)
	}
	if len(result.Clusters) == 0 {
		return nil, fmt.Errorf("collaborator proposed no clusters")
	}
	return result.Clusters, nil
}

type Clusterer struct {
	Proposer Proposer
	Fallback Proposer // Consulted when Proposer fails, may be nil
	Namer    *Namer
	Logger   *zap.Logger
}

func NewClusterer(proposer, fallback Proposer, namer *Namer, logger *zap.Logger) *Clusterer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clusterer{
		Proposer: proposer,
		Fallback: fallback,
		Namer:    namer,
		Logger:   logger,
	}
}

// Cluster partitions topics into ordered clusters. Collaborator failures never
// fail the call: they degrade to the fallback proposal, or to one
// Miscellaneous cluster, and show up in the result's warnings. Only a done
// context is an error.
func (c *Clusterer) Cluster(ctx context.Context, topics []model.Topic, minClusters, maxClusters int) (*model.ClusterResult, error) {
	result := &model.ClusterResult{Topics: topics}
	if len(topics) == 0 {
		return result, nil
	}

	proposals, warnings := c.propose(ctx, topics, minClusters, maxClusters)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repaired, repairs := Repair(len(topics), proposals)
	warnings = append(warnings, repairs...)

	if maxClusters > 0 && (len(repaired) < minClusters || len(repaired) > maxClusters) {
		warnings = append(warnings, model.RepairWarning{
			Kind:   model.RepairClusterCount,
			Detail: fmt.Sprintf("got %d clusters, expected between %d and %d", len(repaired), minClusters, maxClusters),
		})
	}

	for i, p := range repaired {
		level := p.Level
		if level <= 0 {
			level = i + 1
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = c.nameFor(ctx, topics, p.Indices, i)
		}
		result.Clusters = append(result.Clusters, model.Cluster{
			ID:           uuid.New().String(),
			Name:         name,
			Level:        level,
			TopicIndices: p.Indices,
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Warnings = warnings
	if result.Repaired() {
		c.Logger.Info("cluster proposal repaired",
			zap.Int("topics", len(topics)),
			zap.Int("clusters", len(result.Clusters)),
			zap.Int("warnings", len(warnings)))
	}
	return result, nil
}

func (c *Clusterer) propose(ctx context.Context, topics []model.Topic, minClusters, maxClusters int) ([]model.ClusterProposal, []model.RepairWarning) {
	var warnings []model.RepairWarning

	if c.Proposer != nil {
		proposals, err := c.Proposer.Propose(ctx, topics, minClusters, maxClusters)
		if err == nil {
			return proposals, nil
		}
		c.Logger.Warn("cluster proposal failed", zap.Error(err))
		warnings = append(warnings, model.RepairWarning{Kind: model.RepairProposalUnavailable, Detail: err.Error()})
	}

	if c.Fallback != nil && ctx.Err() == nil {
		proposals, err := c.Fallback.Propose(ctx, topics, minClusters, maxClusters)
		if err == nil {
			return proposals, warnings
		}
		c.Logger.Warn("fallback cluster proposal failed", zap.Error(err))
		warnings = append(warnings, model.RepairWarning{Kind: model.RepairProposalUnavailable, Detail: err.Error()})
	}

	return nil, warnings
}

func (c *Clusterer) nameFor(ctx context.Context, topics []model.Topic, indices []int, position int) string {
	members := make([]model.Topic, 0, len(indices))
	for _, idx := range indices {
		members = append(members, topics[idx])
	}
	name, err := c.Namer.Name(ctx, members)
	if err != nil {
		c.Logger.Debug("cluster naming failed", zap.Error(err))
	}
	if name == "" {
		name = fmt.Sprintf("Module %d", position+1)
	}
	return name
}
