package transport

import (
	"context"
)

// Frame is one discrete unit of text delivered by a stream, plus the
// transport-level event label when the wire format carries one (SSE does,
// Redis streams may). The label is only a classification fallback; payloads
// normally carry their own type field.
type Frame struct {
	Data  string
	Label string
}

// Stream is a single-consumer pull of text frames. Next returns io.EOF on
// natural end of stream and the context's error once the session is canceled.
type Stream interface {
	Next(ctx context.Context) (Frame, error)
	Close() error
}

// Transport opens one streaming comparison request. Implementations bind the
// supplied context so that canceling it stops frame delivery without leaking
// the underlying connection.
type Transport interface {
	Open(ctx context.Context, req Request) (Stream, error)
}

// Request describes one streaming comparison request.
type Request struct {
	ProjectID      string `json:"project_id"`
	AssistantID    string `json:"assistant_id"`
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	BaselineRunID  string `json:"baseline_run_id"`
}
