package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agenthands/syllabus/internal/core/model"
)

// MockEmbedder serves fixed vectors by text.
type MockEmbedder struct {
	mu      sync.Mutex
	Vectors map[string][]float32
	Default []float32
	Err     error
	Calls   int
}

func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := m.Vectors[t]
		if !ok {
			if m.Default == nil {
				return nil, fmt.Errorf("no vector for %q", t)
			}
			v = m.Default
		}
		out[i] = v
	}
	return out, nil
}

type MockLLM struct {
	mu            sync.Mutex
	Response      string
	ResponseQueue []string
	Prompts       []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

// MockGaps records how many calls overlap.
type MockGaps struct {
	mu       sync.Mutex
	inFlight int
	MaxSeen  int
	Calls    int
	Delay    time.Duration
}

func (m *MockGaps) IdentifyGaps(ctx context.Context, source, target model.Topic) []string {
	m.mu.Lock()
	m.Calls++
	m.inFlight++
	if m.inFlight > m.MaxSeen {
		m.MaxSeen = m.inFlight
	}
	m.mu.Unlock()

	time.Sleep(m.Delay)

	m.mu.Lock()
	m.inFlight--
	m.mu.Unlock()
	return []string{"gap for " + source.Text}
}
