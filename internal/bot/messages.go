package bot

// User-facing reply text, WhatsApp markdown. Centralized so wording
// changes never touch pipeline code.
const (
	// Help message, sent for anything that is not a lookup
	MsgHelp = "🚀 *GhanaPost GPS Bot Help* 🚀\n\n" +
		"🔍 *Lookup Address*:\n" +
		"Send a GhanaPost code like:\n" +
		"• GA1234567\n" +
		"• GA-123-4567\n\n" +
		"📷 *Scan QR Code*:\n" +
		"Send a GhanaPost QR image\n\n" +
		"📍 *Share Location*:\n" +
		"Tap 📎 → Location → Send"

	// Code validation messages
	MsgInvalidCode = "❌ That doesn't look like a GhanaPost code\n\n" +
		"Codes are two letters and 6-7 digits, like GA1234567 or GA-123-4567"

	// Lookup failure: the code is well-formed but the service has no
	// record for it (or was unreachable)
	MsgNotFoundFmt = "❌ Address not found for code: %s\n\n" +
		"Double-check the code and try again\n" +
		"Examples: GA1234567, GA-123-4567"

	// QR messages
	MsgQRUnreadable = "❌ Could not read QR code. Please send a clear image of a GhanaPost QR code"
	MsgQRNoCode     = "❌ No valid GhanaPost code found in QR image"

	// Location messages
	CodeUnavailable = "Not available"

	// Throttling and failure messages
	MsgRateLimited = "🐢 Easy there!\n\nYou're sending messages too quickly. Wait a moment and try again"
	MsgServerError = "⚠️ Server error. Please try again later."
)
