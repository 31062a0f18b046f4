package frame

import (
	"encoding/json"
	"strings"
)

// DoneSentinel is the terminator frame the server emits before closing a stream.
const DoneSentinel = "[DONE]"

// Decode parses one raw transport frame into a generic payload.
//
// The sentinel terminator and anything that is not a JSON object are discarded:
// the second return value is false and no error is surfaced, so a single bad
// frame never aborts an otherwise healthy stream.
func Decode(raw string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == DoneSentinel {
		return nil, false
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, false
	}
	if payload == nil {
		return nil, false
	}

	return payload, true
}
