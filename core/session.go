package orchestration

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/grandrevier/concierge-core/core/llms"
)

// Session is the append-only message log for one guest conversation. It is
// seeded with exactly one system message that is never removed or reordered;
// everything after it is appended and never edited in place. History grows
// unbounded for the lifetime of the conversation.
type Session struct {
	id string

	mu       sync.RWMutex
	messages []llms.Message
}

func NewSession(systemPrompt string) *Session {
	return &Session{
		id: uuid.NewString(),
		messages: []llms.Message{{
			Role:    llms.MessageRoleSystem,
			Content: systemPrompt,
		}},
	}
}

func (s *Session) ID() string {
	return s.id
}

// AppendUser records a guest message.
func (s *Session) AppendUser(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, llms.Message{
		Role:    llms.MessageRoleUser,
		Content: text,
	})
}

// AppendAssistant records an assistant turn, including any tool calls it
// requested.
func (s *Session) AppendAssistant(response llms.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, llms.Message{
		Role:      llms.MessageRoleAssistant,
		Content:   response.Content,
		ToolCalls: response.ToolCalls,
	})
}

// AppendToolResult records the textual output of one tool call. The call id
// must reference a tool call from the immediately preceding assistant
// message.
func (s *Session) AppendToolResult(callID, output string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, llms.Message{
		Role:       llms.MessageRoleTool,
		Content:    output,
		ToolCallID: callID,
	})
}

// History returns a deep copy of the ordered message log.
func (s *Session) History() []llms.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []llms.Message
	if err := copier.CopyWithOption(&history, &s.messages, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on invalid to/from types, which cannot
		// happen for a slice-to-slice copy of the same element type.
		history = append([]llms.Message(nil), s.messages...)
	}
	return history
}

// Len returns the number of messages in the log, the seed system message
// included.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.messages)
}
