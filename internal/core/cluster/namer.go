package cluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/syllabus/internal/config"
	"github.com/agenthands/syllabus/internal/core/common"
	"github.com/agenthands/syllabus/internal/core/model"
	"github.com/agenthands/syllabus/internal/llm"
)

const (
	maxNamedTopics = 15
	maxNameRunes   = 60
)

type clusterName struct {
	Name string `json:"name"`
}

// Namer titles clusters the proposal left unnamed.
type Namer struct {
	LLM           llm.LLMClient
	Prompt        string
	MaxTopicChars int
}

func NewNamer(llmClient llm.LLMClient, prompt string, maxTopicChars int) *Namer {
	if prompt == "" {
		prompt = config.DefaultClusterNamePrompt
	}
	return &Namer{
		LLM:           llmClient,
		Prompt:        prompt,
		MaxTopicChars: maxTopicChars,
	}
}

// Name asks the collaborator for a short title covering the given topics.
// An empty name with a nil error means no usable title came back.
func (n *Namer) Name(ctx context.Context, topics []model.Topic) (string, error) {
	if n == nil || n.LLM == nil || len(topics) == 0 {
		return "", nil
	}

	var list strings.Builder
	for i, t := range topics {
		if i == maxNamedTopics {
			break
		}
		fmt.Fprintf(&list, "- %s\n", common.Truncate(t.Text, n.MaxTopicChars))
	}

	response, err := n.LLM.Generate(ctx, fmt.Sprintf(n.Prompt, list.String()))
	if err != nil {
		return "", fmt.Errorf("failed to generate cluster name: %w", err)
	}

	result, err := common.ParseJSON[clusterName](response)
	if err == nil {
		return strings.TrimSpace(result.Name), nil
	}

	// Some models answer with the bare title.
	plain := strings.Trim(strings.TrimSpace(response), `"`)
	if plain == "" || strings.ContainsAny(plain, "\n{}") || len([]rune(plain)) > maxNameRunes {
		return "", nil
	}
	return plain, nil
}
