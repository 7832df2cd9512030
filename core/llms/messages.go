package llms

import "errors"

// ErrUnavailable signals that the reasoning provider could not be reached or
// refused the request. Transient transport failures are retried inside the
// provider client before this is surfaced.
var ErrUnavailable = errors.New("reasoning service unavailable")

// Message is a single entry in a conversation log.
type Message struct {
	Role    MessageRole
	Content string

	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall
	// ToolCallID is set on tool-result messages and references the tool
	// call the content responds to.
	ToolCallID string
}

// Response is a single assistant turn returned by an LLM. Content and
// ToolCalls are mutually exclusive: when tool calls are present any content
// is provisional and must not be shown to the user.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// HasToolCalls reports whether the turn requests tool execution rather than
// delivering a final answer.
func (r Response) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// ToolCall is a single tool invocation requested by the assistant.
type ToolCall struct {
	// ID is the provider-assigned identifier, unique within the turn.
	ID   string
	Name string
	// Arguments is the raw JSON-encoded argument object.
	Arguments string
}

// MessageRole describes who a message is from.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleTool      MessageRole = "tool"
)
