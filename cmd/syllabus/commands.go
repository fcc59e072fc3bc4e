package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/syllabus/internal/core"
	"github.com/agenthands/syllabus/internal/core/dedupe"
	"github.com/agenthands/syllabus/internal/core/model"
	"github.com/agenthands/syllabus/internal/core/normalize"
)

type reconcileCommander struct {
	*globalOptions
	coursePath    string
	documentsPath string
	timeout       time.Duration
}

func newReconcileCmd(opts *globalOptions) *cobra.Command {
	cmder := &reconcileCommander{globalOptions: opts}

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match course topics against document topics",
		Long: `Normalize, deduplicate and embed both topic lists, match every course topic
to its closest document topic and report gaps, uncovered course topics and
document topics worth adding to the course.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVar(&cmder.coursePath, "course", "", "File with the planned course topics")
	cmd.Flags().StringVar(&cmder.documentsPath, "documents", "", "File with the topics found in documents")
	cmd.Flags().DurationVar(&cmder.timeout, "timeout", 5*time.Minute, "Upper bound for the whole run")
	_ = cmd.MarkFlagRequired("course")
	_ = cmd.MarkFlagRequired("documents")

	return cmd
}

func (c *reconcileCommander) run(cmd *cobra.Command) error {
	course, err := readTopics(c.coursePath)
	if err != nil {
		return err
	}
	documents, err := readTopics(c.documentsPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	defer cancel()

	rc, closeEngine, log, err := c.engine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer closeEngine(context.Background())

	report, err := rc.Reconcile(ctx,
		core.NewTopics(course, model.SourceGenerated),
		core.NewTopics(documents, model.SourceDocument))
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	return c.write(cmd.OutOrStdout(), report)
}

type clusterCommander struct {
	*globalOptions
	topicsPath  string
	minClusters int
	maxClusters int
	timeout     time.Duration
}

func newClusterCmd(opts *globalOptions) *cobra.Command {
	cmder := &clusterCommander{globalOptions: opts}

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Group a long topic list into ordered modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}
	cmd.Flags().StringVar(&cmder.topicsPath, "topics", "", "File with the topics to group")
	cmd.Flags().IntVar(&cmder.minClusters, "min-clusters", 0, "Fewest modules to ask for (0 uses the config)")
	cmd.Flags().IntVar(&cmder.maxClusters, "max-clusters", 0, "Most modules to ask for (0 uses the config)")
	cmd.Flags().DurationVar(&cmder.timeout, "timeout", 5*time.Minute, "Upper bound for the whole run")
	_ = cmd.MarkFlagRequired("topics")

	return cmd
}

func (c *clusterCommander) run(cmd *cobra.Command) error {
	texts, err := readTopics(c.topicsPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	defer cancel()

	rc, closeEngine, log, err := c.engine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer closeEngine(context.Background())

	result, err := rc.ClusterTopics(ctx, core.NewTopics(texts, model.SourceGenerated), c.minClusters, c.maxClusters)
	if err != nil {
		return fmt.Errorf("cluster: %w", err)
	}
	if result.Skipped {
		log.Info("topic list is short enough, clustering skipped", zap.Int("topics", len(result.Topics)))
	}
	return c.write(cmd.OutOrStdout(), result)
}

type normalizeOutput struct {
	Topics   []string          `json:"topics"`
	Rejected []model.Rejection `json:"rejected,omitempty"`
}

func newNormalizeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <topics-file>",
		Short: "Clean raw topic strings without calling any provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			texts, err := readTopics(args[0])
			if err != nil {
				return err
			}

			n := normalize.NewNormalizer(cfg.Normalize.MinLength, cfg.Normalize.MaxLength)
			kept, rejected := n.NormalizeTopics(core.NewTopics(texts, model.SourceGenerated))

			out := normalizeOutput{Topics: make([]string, len(kept)), Rejected: rejected}
			for i, t := range kept {
				out.Topics[i] = t.Text
			}
			return opts.write(cmd.OutOrStdout(), out)
		},
	}
}

func newDedupeCmd(opts *globalOptions) *cobra.Command {
	var skipNormalize bool

	cmd := &cobra.Command{
		Use:   "dedupe <topics-file>",
		Short: "Remove near-duplicate topics without calling any provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			texts, err := readTopics(args[0])
			if err != nil {
				return err
			}
			if !skipNormalize {
				texts = normalize.NewNormalizer(cfg.Normalize.MinLength, cfg.Normalize.MaxLength).Normalize(texts)
			}

			result := dedupe.NewDetector(cfg.Dedupe.SimilarityThreshold, nil).Dedupe(texts)
			return opts.write(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().BoolVar(&skipNormalize, "raw", false, "Deduplicate the strings as given, without normalizing first")

	return cmd
}
