// Package gaps asks a generative collaborator what a partially matching topic
// is missing. It is best-effort: failures turn into a placeholder, never an
// error.
package gaps

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/syllabus/internal/config"
	"github.com/agenthands/syllabus/internal/core/common"
	"github.com/agenthands/syllabus/internal/core/model"
	"github.com/agenthands/syllabus/internal/llm"
)

const (
	MaxGaps         = 3
	defaultMaxChars = 300
)

type gapList struct {
	Gaps []string `json:"gaps"`
}

type Analyzer struct {
	LLM         llm.LLMClient
	Prompt      string // fmt format string taking source then target text
	MaxGaps     int
	MaxChars    int // Per-topic bound on text placed in the prompt
	Placeholder string
	Logger      *zap.Logger
}

func NewAnalyzer(llmClient llm.LLMClient, cfg config.GapsConfig, prompt string, logger *zap.Logger) *Analyzer {
	if prompt == "" {
		prompt = config.DefaultGapsPrompt
	}
	maxGaps := cfg.MaxGaps
	if maxGaps <= 0 || maxGaps > MaxGaps {
		maxGaps = MaxGaps
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	placeholder := cfg.Placeholder
	if placeholder == "" {
		placeholder = config.DefaultGapPlaceholder
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		LLM:         llmClient,
		Prompt:      prompt,
		MaxGaps:     maxGaps,
		MaxChars:    maxChars,
		Placeholder: placeholder,
		Logger:      logger,
	}
}

// IdentifyGaps returns up to MaxGaps short descriptions of what target lacks
// to cover source. On any collaborator problem it returns the placeholder.
func (a *Analyzer) IdentifyGaps(ctx context.Context, source, target model.Topic) []string {
	if a.LLM == nil {
		return []string{a.Placeholder}
	}

	prompt := fmt.Sprintf(a.Prompt,
		common.Truncate(source.Text, a.MaxChars),
		common.Truncate(target.Text, a.MaxChars))

	response, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		a.Logger.Warn("gap analysis failed, using placeholder",
			zap.String("source", source.ID),
			zap.String("target", target.ID),
			zap.Error(err))
		return []string{a.Placeholder}
	}

	gaps, err := parseGaps(response)
	if err != nil {
		a.Logger.Warn("gap analysis returned malformed response, using placeholder",
			zap.String("source", source.ID),
			zap.Error(err))
		return []string{a.Placeholder}
	}

	out := make([]string, 0, a.MaxGaps)
	for _, g := range gaps {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		out = append(out, g)
		if len(out) == a.MaxGaps {
			break
		}
	}
	return out
}

// parseGaps accepts {"gaps": [...]} and, failing that, a bare JSON array.
func parseGaps(response string) ([]string, error) {
	obj, objErr := common.ParseJSON[gapList](response)
	if objErr == nil && obj.Gaps != nil {
		return obj.Gaps, nil
	}
	list, err := common.ParseJSONList[string](response)
	if err == nil {
		return list, nil
	}
	if objErr == nil {
		return nil, fmt.Errorf("response has no \"gaps\" key")
	}
	return nil, objErr
}
