package assistant

import (
	"context"
	"strings"
)

// Session holds one bounded conversation transcript and proxies it to
// the completion service. The transcript always starts with exactly one
// system entry; it only grows by appending, or collapses back to the
// single system entry on Reset. A Session serves one interaction at a
// time and is not safe for concurrent use.
type Session struct {
	client       *Client
	systemPrompt string
	history      []Message
}

// NewSession builds a session whose transcript starts as the single
// system entry.
func NewSession(client *Client, systemPrompt string) *Session {
	return &Session{
		client:       client,
		systemPrompt: systemPrompt,
		history:      []Message{{Role: RoleSystem, Content: systemPrompt}},
	}
}

// Send appends the user entry, sends the whole transcript and appends
// the assistant reply on success. On failure the user entry stays and no
// assistant entry is added, so the caller may simply re-send.
func (s *Session) Send(ctx context.Context, userMessage string) (string, error) {
	s.history = append(s.history, Message{Role: RoleUser, Content: userMessage})
	reply, err := s.client.Complete(ctx, s.history)
	if err != nil {
		return "", err
	}
	s.history = append(s.history, Message{Role: RoleAssistant, Content: reply})
	return reply, nil
}

// SendStreaming is Send with the reply delivered as a finite sequence of
// fragments. Concatenating every fragment yields the full reply, which
// is appended to the transcript only once the fragment channel has been
// exhausted without error.
func (s *Session) SendStreaming(ctx context.Context, userMessage string) (<-chan string, <-chan error) {
	s.history = append(s.history, Message{Role: RoleUser, Content: userMessage})

	frags, errs := s.client.Stream(ctx, s.history)
	out := make(chan string)
	done := make(chan error, 1)

	go func() {
		var full strings.Builder
		for f := range frags {
			full.WriteString(f)
			out <- f
		}
		err := <-errs
		if err == nil {
			s.history = append(s.history, Message{Role: RoleAssistant, Content: full.String()})
		}
		close(out)
		if err != nil {
			done <- err
		}
		close(done)
	}()

	return out, done
}

// Reset discards the transcript, keeping a single fresh system entry.
// An empty newSystemPrompt keeps the previous system prompt.
func (s *Session) Reset(newSystemPrompt string) {
	if newSystemPrompt != "" {
		s.systemPrompt = newSystemPrompt
	}
	s.history = []Message{{Role: RoleSystem, Content: s.systemPrompt}}
}

// History returns a copy of the transcript. Index 0 is always the system
// entry.
func (s *Session) History() []Message {
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}
