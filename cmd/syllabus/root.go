package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/syllabus/internal/config"
	"github.com/agenthands/syllabus/internal/core"
	"github.com/agenthands/syllabus/internal/logger"
)

const rootLongDesc string = `Syllabus reconciles a planned course topic list with the topics found in
supporting documents, and groups long topic lists into ordered modules.

Topic files may be JSON (a list of strings or {"topics": [...]}), YAML (a list
of strings) or plain text with one topic per line. Use "-" to read stdin.

Example:
  syllabus reconcile --course plan.txt --documents extracted.json
  syllabus cluster --topics topics.yaml --output yaml
  syllabus normalize raw.txt
  syllabus dedupe raw.txt`

// globalOptions are the persistent flags every subcommand shares.
type globalOptions struct {
	configPath string
	debug      bool
	output     string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "syllabus",
		Short:         "Course topic reconciliation",
		Long:          rootLongDesc,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config/config.toml", "Path to the TOML configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "Output format: json or yaml")

	cmd.AddCommand(newReconcileCmd(opts))
	cmd.AddCommand(newClusterCmd(opts))
	cmd.AddCommand(newNormalizeCmd(opts))
	cmd.AddCommand(newDedupeCmd(opts))

	return cmd
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv()
	if o.debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", o.configPath, err)
	}
	return cfg, nil
}

// engine builds a reconciler with real providers for commands that need them.
func (o *globalOptions) engine(ctx context.Context) (*core.Reconciler, func(context.Context) error, *zap.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.NewLogger(cfg.Debug)

	rc, closeEngine, err := core.NewFromConfig(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return rc, closeEngine, log, nil
}

func (o *globalOptions) write(w io.Writer, v any) error {
	switch strings.ToLower(o.output) {
	case "yaml", "yml":
		// Round-trip through JSON so YAML keys match the JSON field names.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
