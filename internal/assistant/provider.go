package assistant

import "context"

// Message is one turn of a completion conversation.
type Message struct {
	Role    string // "system", "user" or "assistant"
	Content string
}

// Provider produces a text completion for an ordered conversation. The
// completion service is opaque to the rest of the application; tests swap
// in a fake.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
