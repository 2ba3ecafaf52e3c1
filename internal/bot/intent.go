package bot

import (
	"ghanapost-gps-bot/internal/postcode"
)

// Kind identifies which of the four mutually exclusive intents applies
// to an inbound message.
type Kind int

const (
	// KindQrLookup resolves a code embedded in a shared QR image.
	KindQrLookup Kind = iota
	// KindDirectLookup resolves a code typed as the message body.
	KindDirectLookup
	// KindLocationLookup resolves a shared location to a code.
	KindLocationLookup
	// KindHelp answers everything else with usage instructions.
	KindHelp
)

// String returns the metrics label for the kind.
func (k Kind) String() string {
	switch k {
	case KindQrLookup:
		return "qr"
	case KindDirectLookup:
		return "direct"
	case KindLocationLookup:
		return "location"
	default:
		return "help"
	}
}

// Intent is the classified form of one inbound message. Exactly one
// variant applies; the populated fields depend on Kind.
type Intent struct {
	Kind      Kind
	MediaURL  string  // KindQrLookup
	Text      string  // KindDirectLookup: the raw message body
	Latitude  float64 // KindLocationLookup
	Longitude float64 // KindLocationLookup
}

// Classify selects the intent for a message. The precedence is a
// product decision, not an artifact of check order: media beats a
// typed code, a typed code beats shared coordinates.
func Classify(msg InboundMessage) Intent {
	if msg.MediaURL != "" {
		return Intent{Kind: KindQrLookup, MediaURL: msg.MediaURL}
	}

	if _, ok := postcode.Normalize(msg.Text); ok {
		return Intent{Kind: KindDirectLookup, Text: msg.Text}
	}

	if msg.HasCoordinates() {
		return Intent{
			Kind:      KindLocationLookup,
			Latitude:  *msg.Latitude,
			Longitude: *msg.Longitude,
		}
	}

	return Intent{Kind: KindHelp}
}
