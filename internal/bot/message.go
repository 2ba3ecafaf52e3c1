// Package bot contains the core of the service: classifying one
// inbound WhatsApp message into an intent, running the matching lookup
// pipeline, and composing exactly one reply. Everything here is
// request-scoped; nothing survives past the reply.
package bot

// InboundMessage carries the fields of one inbound chat message that
// the core cares about. It is built once per request from the raw
// transport fields and never mutated.
type InboundMessage struct {
	Text      string
	MediaURL  string
	Latitude  *float64
	Longitude *float64
}

// HasCoordinates reports whether the message includes a shared location.
func (m InboundMessage) HasCoordinates() bool {
	return m.Latitude != nil && m.Longitude != nil
}
