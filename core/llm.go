package orchestration

import (
	"context"
	"fmt"

	"github.com/grandrevier/concierge-core/core/llms"
)

// llm is the reasoning facade. It keeps nil-client handling out of the turn
// state machine.
type llm struct {
	// client is the configured reasoning implementation.
	client LLM
}

func (runtime *llm) set(client LLM) {
	if runtime == nil {
		return
	}

	runtime.client = client
}

func (runtime *llm) isConfigured() bool {
	return runtime != nil && runtime.client != nil
}

func (runtime *llm) respond(ctx context.Context, history []llms.Message, catalog []llms.Tool) (*llms.Response, error) {
	if !runtime.isConfigured() {
		return nil, fmt.Errorf("no reasoning client configured")
	}

	response, err := runtime.client.Respond(ctx, history, catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to prompt llm: %w", err)
	}
	if response == nil {
		// A misbehaving client is treated as an empty final answer rather
		// than a turn failure.
		return &llms.Response{}, nil
	}

	return response, nil
}
