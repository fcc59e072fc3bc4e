package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/syllabus/internal/config"
	"github.com/agenthands/syllabus/internal/core/cluster"
	"github.com/agenthands/syllabus/internal/core/community"
	"github.com/agenthands/syllabus/internal/core/dedupe"
	"github.com/agenthands/syllabus/internal/core/embed"
	"github.com/agenthands/syllabus/internal/core/gaps"
	"github.com/agenthands/syllabus/internal/core/match"
	"github.com/agenthands/syllabus/internal/core/model"
	"github.com/agenthands/syllabus/internal/core/normalize"
	"github.com/agenthands/syllabus/internal/llm"
)

const defaultGapConcurrency = 4

// TopicEmbedder vectorizes topics, one embedding per topic in input order.
type TopicEmbedder interface {
	Embed(ctx context.Context, topics []model.Topic) ([]model.Embedding, error)
}

type GapIdentifier interface {
	IdentifyGaps(ctx context.Context, source, target model.Topic) []string
}

// Options carries every tunable the pipeline uses. It is built once from the
// loaded configuration and handed to New.
type Options struct {
	Normalize  config.NormalizeConfig
	Dedupe     config.DedupeConfig
	Matching   config.MatchingConfig
	Gaps       config.GapsConfig
	Clustering config.ClusteringConfig
	Prompts    config.Prompts
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Normalize:  cfg.Normalize,
		Dedupe:     cfg.Dedupe,
		Matching:   cfg.Matching,
		Gaps:       cfg.Gaps,
		Clustering: cfg.Clustering,
		Prompts:    cfg.Prompts,
	}
}

// Reconciler aligns a planned course topic list with topics found in
// supporting documents, and groups long topic lists into modules.
type Reconciler struct {
	Normalizer *normalize.Normalizer
	Detector   *dedupe.Detector
	Embedder   TopicEmbedder
	Matcher    *match.Matcher
	Gaps       GapIdentifier
	Clusterer  *cluster.Clusterer
	Options    Options
	Logger     *zap.Logger
}

// New wires the pipeline. gateway may be nil, in which case Reconcile fails
// at the embedding stage and clustering has no similarity fallback.
func New(opts Options, llmClient llm.LLMClient, gateway *embed.Gateway, logger *zap.Logger) (*Reconciler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	matcher, err := match.NewMatcher(opts.Matching.StrongThreshold, opts.Matching.WeakThreshold, opts.Matching.MaxEvidence)
	if err != nil {
		return nil, err
	}

	var fallback cluster.Proposer
	var embedder TopicEmbedder
	if gateway != nil {
		embedder = gateway
		edge := opts.Clustering.EdgeThreshold
		if edge <= 0 {
			edge = matcher.WeakThreshold
		}
		fallback = community.NewSimilarityProposer(gateway, edge)
	}

	var proposer cluster.Proposer
	if llmClient != nil {
		proposer = cluster.NewLLMProposer(llmClient, opts.Clustering, opts.Prompts.Clusters)
	}
	namer := cluster.NewNamer(llmClient, opts.Prompts.ClusterName, opts.Clustering.MaxTopicChars)

	return &Reconciler{
		Normalizer: normalize.NewNormalizer(opts.Normalize.MinLength, opts.Normalize.MaxLength),
		Detector:   dedupe.NewDetector(opts.Dedupe.SimilarityThreshold, logger),
		Embedder:   embedder,
		Matcher:    matcher,
		Gaps:       gaps.NewAnalyzer(llmClient, opts.Gaps, opts.Prompts.Gaps, logger),
		Clusterer:  cluster.NewClusterer(proposer, fallback, namer, logger),
		Options:    opts,
		Logger:     logger,
	}, nil
}

// NewTopics wraps raw strings as topics with fresh IDs.
func NewTopics(texts []string, source model.SourceType) []model.Topic {
	topics := make([]model.Topic, len(texts))
	for i, t := range texts {
		topics[i] = model.Topic{ID: uuid.NewString(), Text: t, SourceType: source}
	}
	return topics
}

// run tracks one Reconcile call through its states.
type run struct {
	state  model.Stage
	logger *zap.Logger
}

func (r *run) advance(next model.Stage) {
	r.logger.Debug("reconcile stage", zap.String("from", string(r.state)), zap.String("to", string(next)))
	r.state = next
}

func (r *run) fail(next model.Stage, err error) error {
	r.logger.Warn("reconcile failed",
		zap.String("state", string(r.state)),
		zap.String("stage", string(next)),
		zap.Error(err))
	r.state = model.StageFailed
	return &model.StageError{Stage: next, Err: err}
}

// Reconcile runs normalize, dedupe, embed, match and gap analysis over both
// topic sets and builds the report. Any error, including a done context,
// discards the whole result.
func (rc *Reconciler) Reconcile(ctx context.Context, course, documents []model.Topic) (*model.Report, error) {
	start := time.Now()
	r := &run{state: model.StageInit, logger: rc.Logger}

	course, err := prepare("course_topics", course)
	if err != nil {
		return nil, r.fail(model.StageNormalized, err)
	}
	documents, err = prepare("document_topics", documents)
	if err != nil {
		return nil, r.fail(model.StageNormalized, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, r.fail(model.StageNormalized, err)
	}

	report := &model.Report{}

	course, rejected := rc.Normalizer.NormalizeTopics(course)
	report.Rejected = append(report.Rejected, rejected...)
	documents, rejected = rc.Normalizer.NormalizeTopics(documents)
	report.Rejected = append(report.Rejected, rejected...)
	if err := requireTopics(course, documents, "normalization"); err != nil {
		return nil, r.fail(model.StageNormalized, err)
	}
	r.advance(model.StageNormalized)

	courseDedup := rc.Detector.DedupeTopics(course)
	docDedup := rc.Detector.DedupeTopics(documents)
	course, documents = courseDedup.UniqueTopics, docDedup.UniqueTopics
	report.Duplicates = append(courseDedup.Duplicates, docDedup.Duplicates...)
	r.advance(model.StageDeduplicated)

	courseItems, docItems, err := rc.embedBoth(ctx, course, documents)
	if err != nil {
		return nil, r.fail(model.StageEmbedded, err)
	}
	r.advance(model.StageEmbedded)

	courseSet := rc.Matcher.Match(courseItems, docItems)
	docSet := rc.Matcher.Match(docItems, courseItems)
	r.advance(model.StageMatched)

	if err := rc.fillGaps(ctx, courseSet.Records, course, documents); err != nil {
		return nil, r.fail(model.StageReported, err)
	}

	report.Matches = courseSet.Records
	report.UnmatchedTargets = courseSet.UnmatchedTargets
	report.CourseTopics = course
	report.DocumentTopics = documents
	for i, rec := range courseSet.Records {
		if rec.MatchType == model.MatchNone {
			report.UnmatchedCourseTopics = append(report.UnmatchedCourseTopics, course[i])
		}
	}
	for i, rec := range docSet.Records {
		if rec.MatchType != model.MatchNone {
			continue
		}
		report.NewTopicSuggestions = append(report.NewTopicSuggestions, model.Suggestion{
			Topic:          documents[i],
			BestScore:      rec.SimilarityScore,
			NearestTopicID: nearest(docItems[i], courseItems),
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, r.fail(model.StageReported, err)
	}
	r.advance(model.StageReported)

	rc.Logger.Info("reconciliation complete",
		zap.Int("course_topics", len(course)),
		zap.Int("document_topics", len(documents)),
		zap.Int("suggestions", len(report.NewTopicSuggestions)),
		zap.Int("unmatched_course_topics", len(report.UnmatchedCourseTopics)),
		zap.Int("rejected", len(report.Rejected)),
		zap.Int("duplicates", len(report.Duplicates)),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

// ClusterTopics cleans a topic list and groups it into ordered modules when it
// is longer than the configured threshold. Shorter lists come back Skipped.
// Zero bounds use the configured cluster count range. Topics dropped while
// cleaning are listed in the result's Rejected and Duplicates.
func (rc *Reconciler) ClusterTopics(ctx context.Context, topics []model.Topic, minClusters, maxClusters int) (*model.ClusterResult, error) {
	topics, err := prepare("topics", topics)
	if err != nil {
		return nil, err
	}
	if minClusters <= 0 {
		minClusters = rc.Options.Clustering.MinClusters
	}
	if maxClusters <= 0 {
		maxClusters = rc.Options.Clustering.MaxClusters
	}
	if maxClusters < minClusters {
		return nil, &model.ValidationError{
			Field:  "max_clusters",
			Reason: fmt.Sprintf("must be at least min_clusters (%d), got %d", minClusters, maxClusters),
		}
	}

	topics, rejected := rc.Normalizer.NormalizeTopics(topics)
	if len(topics) == 0 {
		return nil, &model.ValidationError{Field: "topics", Reason: "no topics left after normalization"}
	}
	deduped := rc.Detector.DedupeTopics(topics)
	topics = deduped.UniqueTopics

	var result *model.ClusterResult
	if len(topics) <= rc.Options.Clustering.Threshold {
		rc.Logger.Debug("clustering skipped",
			zap.Int("topics", len(topics)),
			zap.Int("threshold", rc.Options.Clustering.Threshold))
		result = &model.ClusterResult{Topics: topics, Skipped: true}
	} else {
		if result, err = rc.Clusterer.Cluster(ctx, topics, minClusters, maxClusters); err != nil {
			return nil, err
		}
	}
	result.Rejected = rejected
	result.Duplicates = deduped.Duplicates
	return result, nil
}

func (rc *Reconciler) embedBoth(ctx context.Context, course, documents []model.Topic) ([]match.Item, []match.Item, error) {
	if rc.Embedder == nil {
		return nil, nil, &model.CollaboratorError{Collaborator: "embedding", Op: "embed topics", Err: fmt.Errorf("no embedding client configured")}
	}

	var courseEmb, docEmb []model.Embedding
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courseEmb, err = rc.Embedder.Embed(gctx, course)
		return err
	})
	g.Go(func() error {
		var err error
		docEmb, err = rc.Embedder.Embed(gctx, documents)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	courseItems, err := items(course, courseEmb)
	if err != nil {
		return nil, nil, err
	}
	docItems, err := items(documents, docEmb)
	if err != nil {
		return nil, nil, err
	}
	return courseItems, docItems, nil
}

// fillGaps annotates weak records in place, a bounded number at a time.
// records[i] belongs to course[i].
func (rc *Reconciler) fillGaps(ctx context.Context, records []model.MatchRecord, course, documents []model.Topic) error {
	byID := make(map[string]model.Topic, len(documents))
	for _, d := range documents {
		byID[d.ID] = d
	}

	limit := rc.Options.Gaps.Concurrency
	if limit <= 0 {
		limit = defaultGapConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range records {
		rec := &records[i]
		if rec.MatchType != model.MatchWeak {
			continue
		}
		target, ok := byID[rec.TargetTopicID]
		if !ok {
			continue
		}
		source := course[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec.Gaps = rc.Gaps.IdentifyGaps(gctx, source, target)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// prepare copies topics, assigning IDs where missing, and rejects input the
// pipeline cannot work with.
func prepare(field string, topics []model.Topic) ([]model.Topic, error) {
	if len(topics) == 0 {
		return nil, &model.ValidationError{Field: field, Reason: "must contain at least one topic"}
	}
	out := make([]model.Topic, len(topics))
	seen := make(map[string]bool, len(topics))
	for i, t := range topics {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if seen[t.ID] {
			return nil, &model.ValidationError{Field: field, Reason: fmt.Sprintf("duplicate topic id %q", t.ID)}
		}
		seen[t.ID] = true
		if t.SourceType != "" && !t.SourceType.Valid() {
			return nil, &model.ValidationError{Field: field, Reason: fmt.Sprintf("unknown source type %q", t.SourceType)}
		}
		out[i] = t
	}
	return out, nil
}

func requireTopics(course, documents []model.Topic, step string) error {
	if len(course) == 0 {
		return &model.ValidationError{Field: "course_topics", Reason: "no topics left after " + step}
	}
	if len(documents) == 0 {
		return &model.ValidationError{Field: "document_topics", Reason: "no topics left after " + step}
	}
	return nil
}

func items(topics []model.Topic, embeddings []model.Embedding) ([]match.Item, error) {
	if len(embeddings) != len(topics) {
		return nil, &model.CollaboratorError{
			Collaborator: "embedding",
			Op:           "embed topics",
			Err:          fmt.Errorf("got %d embeddings for %d topics", len(embeddings), len(topics)),
		}
	}
	out := make([]match.Item, len(topics))
	for i, t := range topics {
		out[i] = match.Item{Topic: t, Vector: embeddings[i].Vector}
	}
	return out, nil
}

// nearest returns the ID of the candidate most similar to it, first on ties.
func nearest(it match.Item, candidates []match.Item) string {
	best, bestScore := "", -1.0
	for _, c := range candidates {
		if score := match.CosineSimilarity(it.Vector, c.Vector); score > bestScore {
			best, bestScore = c.Topic.ID, score
		}
	}
	return best
}
