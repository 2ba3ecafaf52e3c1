package geocode

import (
	"ghanapost-gps-bot/internal/postcode"
)

// Placeholder used when the upstream omits an address field.
const FieldUnavailable = "N/A"

// AddressRecord is the result of a successful forward lookup.
// Street, District and Region fall back to "N/A" when the upstream
// omits them. Center coordinates may be absent.
type AddressRecord struct {
	Code      postcode.Code
	Street    string
	District  string
	Region    string
	Latitude  *float64
	Longitude *float64
}

// HasCenter reports whether the upstream supplied center coordinates.
func (r *AddressRecord) HasCenter() bool {
	return r.Latitude != nil && r.Longitude != nil
}
