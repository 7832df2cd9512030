package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/grandrevier/concierge-core/core/llms"
)

type llmClientStub struct {
	responses []llms.Response
	err       error

	calls     int
	histories [][]llms.Message
}

func (stub *llmClientStub) Respond(_ context.Context, history []llms.Message, _ []llms.Tool) (*llms.Response, error) {
	stub.histories = append(stub.histories, history)
	stub.calls++

	if stub.err != nil {
		return nil, stub.err
	}
	if len(stub.responses) == 0 {
		return &llms.Response{}, nil
	}

	response := stub.responses[0]
	stub.responses = stub.responses[1:]
	return &response, nil
}

type echoArgs struct {
	Message string `json:"message"`
}

func echoTool() llms.Tool {
	return llms.NewTool("echo", "Echo a message back.",
		func(args echoArgs) (string, error) {
			return "echo: " + args.Message, nil
		})
}

func TestRespondToWithoutToolCalls(t *testing.T) {
	client := &llmClientStub{responses: []llms.Response{{Content: "Welcome to the Grand Revier."}}}
	orchestrator := NewOrchestrator(WithLLM(client))

	reply, err := orchestrator.RespondTo(context.Background(), "hello")
	if err != nil {
		t.Fatalf("expected turn to succeed, got %v", err)
	}
	if reply != "Welcome to the Grand Revier." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if client.calls != 1 {
		t.Fatalf("expected a single reasoning call, got %d", client.calls)
	}

	if orchestrator.Session().Len() != 3 {
		t.Fatalf("expected system, user and assistant messages, got %d", orchestrator.Session().Len())
	}
}

func TestRespondToRunsToolsAndResolves(t *testing.T) {
	client := &llmClientStub{responses: []llms.Response{
		{ToolCalls: []llms.ToolCall{
			{ID: "call_1", Name: "echo", Arguments: `{"message":"first"}`},
			{ID: "call_2", Name: "echo", Arguments: `{"message":"second"}`},
		}},
		{Content: "Both rooms checked."},
	}}
	orchestrator := NewOrchestrator(WithLLM(client), WithTools(echoTool()))

	reply, err := orchestrator.RespondTo(context.Background(), "check both")
	if err != nil {
		t.Fatalf("expected turn to succeed, got %v", err)
	}
	if reply != "Both rooms checked." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if client.calls != 2 {
		t.Fatalf("expected two reasoning calls, got %d", client.calls)
	}

	// The follow-up call must see the tool results, in emission order.
	followUp := client.histories[1]
	if len(followUp) != 5 {
		t.Fatalf("expected 5 messages in follow-up history, got %d", len(followUp))
	}
	if followUp[3].Role != llms.MessageRoleTool || followUp[3].ToolCallID != "call_1" || followUp[3].Content != "echo: first" {
		t.Fatalf("unexpected first tool result: %+v", followUp[3])
	}
	if followUp[4].Role != llms.MessageRoleTool || followUp[4].ToolCallID != "call_2" || followUp[4].Content != "echo: second" {
		t.Fatalf("unexpected second tool result: %+v", followUp[4])
	}
}

func TestRespondToRecordsToolFailureAsErrorText(t *testing.T) {
	failing := llms.NewTool("flaky", "Always fails.",
		func(echoArgs) (string, error) {
			return "", fmt.Errorf("database is locked")
		})

	client := &llmClientStub{responses: []llms.Response{
		{ToolCalls: []llms.ToolCall{{ID: "call_1", Name: "flaky", Arguments: "{}"}}},
		{Content: "Apologies, something went wrong on my end."},
	}}
	orchestrator := NewOrchestrator(WithLLM(client), WithTools(failing))

	reply, err := orchestrator.RespondTo(context.Background(), "try it")
	if err != nil {
		t.Fatalf("expected turn to complete despite tool failure, got %v", err)
	}
	if reply != "Apologies, something went wrong on my end." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	followUp := client.histories[1]
	result := followUp[len(followUp)-1]
	if result.Role != llms.MessageRoleTool || !strings.HasPrefix(result.Content, "Error:") {
		t.Fatalf("expected error-text tool result, got %+v", result)
	}
	if !strings.Contains(result.Content, "database is locked") {
		t.Fatalf("expected tool result to carry the cause, got %q", result.Content)
	}
}

func TestRespondToHandlesUnknownTool(t *testing.T) {
	client := &llmClientStub{responses: []llms.Response{
		{ToolCalls: []llms.ToolCall{{ID: "call_1", Name: "open_pool", Arguments: "{}"}}},
		{Content: "I cannot do that."},
	}}
	orchestrator := NewOrchestrator(WithLLM(client))

	reply, err := orchestrator.RespondTo(context.Background(), "open the pool")
	if err != nil {
		t.Fatalf("expected turn to complete despite unknown tool, got %v", err)
	}
	if reply != "I cannot do that." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	followUp := client.histories[1]
	result := followUp[len(followUp)-1]
	if !strings.HasPrefix(result.Content, "Error:") {
		t.Fatalf("expected error-text tool result for unknown tool, got %q", result.Content)
	}
}

func TestRespondToRecoversToolPanic(t *testing.T) {
	panicking := llms.NewTool("panicky", "Panics on call.",
		func(echoArgs) (string, error) {
			panic("nil room pointer")
		})

	client := &llmClientStub{responses: []llms.Response{
		{ToolCalls: []llms.ToolCall{{ID: "call_1", Name: "panicky", Arguments: "{}"}}},
		{Content: "Let me try something else."},
	}}
	orchestrator := NewOrchestrator(WithLLM(client), WithTools(panicking))

	reply, err := orchestrator.RespondTo(context.Background(), "go")
	if err != nil {
		t.Fatalf("expected turn to complete despite tool panic, got %v", err)
	}
	if reply != "Let me try something else." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	followUp := client.histories[1]
	result := followUp[len(followUp)-1]
	if !strings.HasPrefix(result.Content, "Error:") || !strings.Contains(result.Content, "panicked") {
		t.Fatalf("expected panic to surface as error text, got %q", result.Content)
	}
}

func TestRespondToIgnoresFollowUpToolCalls(t *testing.T) {
	client := &llmClientStub{responses: []llms.Response{
		{ToolCalls: []llms.ToolCall{{ID: "call_1", Name: "echo", Arguments: `{"message":"once"}`}}},
		{
			Content:   "Done checking.",
			ToolCalls: []llms.ToolCall{{ID: "call_2", Name: "echo", Arguments: `{"message":"again"}`}},
		},
	}}
	orchestrator := NewOrchestrator(WithLLM(client), WithTools(echoTool()))

	reply, err := orchestrator.RespondTo(context.Background(), "check")
	if err != nil {
		t.Fatalf("expected turn to succeed, got %v", err)
	}
	if reply != "Done checking." {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if client.calls != 2 {
		t.Fatalf("expected exactly two reasoning calls, got %d", client.calls)
	}

	history := orchestrator.Session().History()
	last := history[len(history)-1]
	if last.Role != llms.MessageRoleAssistant || len(last.ToolCalls) != 0 {
		t.Fatalf("expected follow-up tool calls to be dropped from the log, got %+v", last)
	}
}

func TestRespondToFailsWhenReasoningFails(t *testing.T) {
	client := &llmClientStub{err: fmt.Errorf("%w: connection refused", llms.ErrUnavailable)}
	orchestrator := NewOrchestrator(WithLLM(client))

	if _, err := orchestrator.RespondTo(context.Background(), "hello"); !errors.Is(err, llms.ErrUnavailable) {
		t.Fatalf("expected reasoning unavailability to surface, got %v", err)
	}
}

func TestRespondToRequiresReasoningClient(t *testing.T) {
	orchestrator := NewOrchestrator()

	if _, err := orchestrator.RespondTo(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error without a reasoning client")
	}

	if orchestrator.Session().Len() != 1 {
		t.Fatalf("expected session to stay untouched, got %d messages", orchestrator.Session().Len())
	}
}

func TestWithToolsKeepsRegistrationOrder(t *testing.T) {
	first := llms.NewTool("first", "First tool.", func(echoArgs) (string, error) { return "", nil })
	second := llms.NewTool("second", "Second tool.", func(echoArgs) (string, error) { return "", nil })

	orchestrator := NewOrchestrator(WithTools(first, second))

	catalog := orchestrator.Catalog()
	if len(catalog) != 2 || catalog[0].Name != "first" || catalog[1].Name != "second" {
		t.Fatalf("expected catalog in registration order, got %+v", catalog)
	}
}
