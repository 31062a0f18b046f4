package session

import (
	"github.com/modelarena/challenger-stream/internal/transport"
	"github.com/rs/zerolog"
)

// Notifier surfaces transport failures to the user. Cancellation is benign and
// never notified.
type Notifier interface {
	StreamFailed(req transport.Request, err error)
}

// LogNotifier is the default Notifier; hosts embedding the engine replace it
// with their toast/notification surface.
type LogNotifier struct {
	logger *zerolog.Logger
}

func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) StreamFailed(req transport.Request, err error) {
	n.logger.Error().
		Err(err).
		Str("conversation_id", req.ConversationID).
		Str("message_id", req.MessageID).
		Msg("comparison stream failed")
}
