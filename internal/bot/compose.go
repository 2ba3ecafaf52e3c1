package bot

import (
	"fmt"
	"strconv"
	"strings"

	"ghanapost-gps-bot/internal/geocode"
	"ghanapost-gps-bot/internal/postcode"
)

// ComposeFound renders the reply for a successful forward lookup.
// The map link is only included when the upstream supplied center
// coordinates; none are ever synthesized.
func ComposeFound(record *geocode.AddressRecord) string {
	var b strings.Builder
	b.WriteString("📍 *Address Found* 📍\n")
	fmt.Fprintf(&b, "➡️ *Code*: %s\n", record.Code)
	fmt.Fprintf(&b, "➡️ *Street*: %s\n", record.Street)
	fmt.Fprintf(&b, "➡️ *District*: %s\n", record.District)
	fmt.Fprintf(&b, "➡️ *Region*: %s\n", record.Region)
	if record.HasCenter() {
		b.WriteString("\n🗺️ View on map: ")
		b.WriteString(mapLink(*record.Latitude, *record.Longitude))
	}
	return b.String()
}

// ComposeNotFound renders the reply for a well-formed code the service
// could not resolve.
func ComposeNotFound(code postcode.Code) string {
	return fmt.Sprintf(MsgNotFoundFmt, code)
}

// ComposeLocation renders the reply for a shared location. A failed
// reverse lookup degrades to a partial reply; the received coordinates
// are always echoed at 6-decimal precision.
func ComposeLocation(lat, lng float64, code string) string {
	if code == "" {
		code = CodeUnavailable
	}

	var b strings.Builder
	b.WriteString("📍 *Location Received* 📍\n")
	fmt.Fprintf(&b, "➡️ *Coordinates*: %.6f, %.6f\n", lat, lng)
	fmt.Fprintf(&b, "➡️ *GhanaPost Code*: %s\n", code)
	b.WriteString("\n🗺️ View on map: ")
	b.WriteString(mapLink(lat, lng))
	return b.String()
}

// mapLink builds a Google Maps query URL for the coordinates, printed
// with their shortest exact representation.
func mapLink(lat, lng float64) string {
	return "https://maps.google.com?q=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(lng, 'f', -1, 64)
}
