package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFormatting removes the markdown code fences the model often wraps
// its JSON replies in, with or without a language tag, and trims
// surrounding whitespace.
func StripFormatting(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// decodeReply strips formatting noise from a raw model reply and decodes it
// into the expected payload type. The payload types decode leniently, so
// only missing required fields or outright malformed JSON fail here.
func decodeReply[T any](text string) (T, error) {
	var payload T
	if err := json.Unmarshal([]byte(StripFormatting(text)), &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrJSONParsingFailed, err)
	}
	return payload, nil
}
