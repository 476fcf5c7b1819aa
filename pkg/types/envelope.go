package types

// Envelope is the flat JSON body every endpoint writes. Success payloads merge
// their data fields next to "success" and "message" rather than nesting them.
type Envelope map[string]any

// NewEnvelope builds a success envelope with an optional message.
func NewEnvelope(success bool, message string) Envelope {
	env := Envelope{"success": success}
	if message != "" {
		env["message"] = message
	}
	return env
}

// With adds a data field and returns the envelope for chaining.
func (e Envelope) With(key string, value any) Envelope {
	e[key] = value
	return e
}

