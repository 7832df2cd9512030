package groq

import (
	"github.com/grandrevier/concierge-core/core/llms"
)

type message struct {
	Role       messageRole `json:"role"`
	Content    string      `json:"content"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	ToolCalls  []toolCall  `json:"tool_calls,omitempty"`
}

type messageRole string

const (
	messageRoleSystem    messageRole = "system"
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
	messageRoleTool      messageRole = "tool"
)

type toolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function toolCallFunction `json:"function"`
}

type toolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

func toMessages(history []llms.Message) []message {
	messages := make([]message, 0, len(history))
	for _, msg := range history {
		wireMsg := message{
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}

		switch msg.Role {
		case llms.MessageRoleSystem:
			wireMsg.Role = messageRoleSystem
		case llms.MessageRoleUser:
			wireMsg.Role = messageRoleUser
		case llms.MessageRoleAssistant:
			wireMsg.Role = messageRoleAssistant
			for _, tCall := range msg.ToolCalls {
				wireMsg.ToolCalls = append(wireMsg.ToolCalls, toolCall{
					ID:   tCall.ID,
					Type: "function",
					Function: toolCallFunction{
						Name:      tCall.Name,
						Arguments: tCall.Arguments,
					},
				})
			}
		case llms.MessageRoleTool:
			wireMsg.Role = messageRoleTool
		default:
			continue
		}

		messages = append(messages, wireMsg)
	}
	return messages
}

func fromToolCalls(calls []toolCall) []llms.ToolCall {
	var converted []llms.ToolCall
	for _, call := range calls {
		converted = append(converted, llms.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return converted
}
