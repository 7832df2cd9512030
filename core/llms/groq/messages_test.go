package groq

import (
	"testing"

	"github.com/grandrevier/concierge-core/core/llms"
)

func TestToMessagesMapsFullToolRound(t *testing.T) {
	history := []llms.Message{
		{Role: llms.MessageRoleSystem, Content: "You are a concierge."},
		{Role: llms.MessageRoleUser, Content: "book room 101 for Agatha"},
		{Role: llms.MessageRoleAssistant, ToolCalls: []llms.ToolCall{
			{ID: "call_1", Name: "book_room", Arguments: `{"room_number":"101","guest_name":"Agatha"}`},
		}},
		{Role: llms.MessageRoleTool, ToolCallID: "call_1", Content: "Room 101 is booked for Agatha."},
		{Role: llms.MessageRoleAssistant, Content: "All done, the room is yours."},
	}

	messages := toMessages(history)

	if len(messages) != 5 {
		t.Fatalf("expected 5 wire messages, got %d", len(messages))
	}

	if messages[0].Role != messageRoleSystem || messages[0].Content != "You are a concierge." {
		t.Fatalf("unexpected system message: %+v", messages[0])
	}
	if messages[1].Role != messageRoleUser {
		t.Fatalf("unexpected user message: %+v", messages[1])
	}

	if messages[2].Role != messageRoleAssistant || len(messages[2].ToolCalls) != 1 {
		t.Fatalf("unexpected assistant message: %+v", messages[2])
	}
	call := messages[2].ToolCalls[0]
	if call.ID != "call_1" || call.Type != "function" || call.Function.Name != "book_room" {
		t.Fatalf("unexpected tool call mapping: %+v", call)
	}

	if messages[3].Role != messageRoleTool || messages[3].ToolCallID != "call_1" {
		t.Fatalf("unexpected tool result message: %+v", messages[3])
	}
	if messages[4].Role != messageRoleAssistant || messages[4].Content != "All done, the room is yours." {
		t.Fatalf("unexpected final assistant message: %+v", messages[4])
	}
}

func TestToMessagesSkipsUnknownRoles(t *testing.T) {
	history := []llms.Message{
		{Role: llms.MessageRoleUser, Content: "hello"},
		{Role: "telemetry", Content: "ignore me"},
	}

	messages := toMessages(history)

	if len(messages) != 1 || messages[0].Role != messageRoleUser {
		t.Fatalf("expected only the user message to survive, got %+v", messages)
	}
}

func TestFromToolCalls(t *testing.T) {
	calls := fromToolCalls([]toolCall{
		{ID: "call_1", Type: "function", Function: toolCallFunction{
			Name:      "search_hotel_manual",
			Arguments: `{"query":"breakfast"}`,
		}},
	})

	if len(calls) != 1 {
		t.Fatalf("expected one converted call, got %d", len(calls))
	}
	if calls[0].ID != "call_1" || calls[0].Name != "search_hotel_manual" || calls[0].Arguments != `{"query":"breakfast"}` {
		t.Fatalf("unexpected conversion: %+v", calls[0])
	}
}
