package bot

import (
	"strings"
	"testing"

	"ghanapost-gps-bot/internal/geocode"
)

func TestComposeFound(t *testing.T) {
	record := &geocode.AddressRecord{
		Code:      "GA-123-4567",
		Street:    "Ridge Road",
		District:  "Accra",
		Region:    "Greater Accra",
		Latitude:  floatPtr(5.6),
		Longitude: floatPtr(-0.2),
	}

	reply := ComposeFound(record)

	for _, want := range []string{
		"GA-123-4567",
		"Ridge Road",
		"Accra",
		"Greater Accra",
		"https://maps.google.com?q=5.6,-0.2",
	} {
		if !strings.Contains(reply, want) {
			t.Errorf("Reply missing %q:\n%s", want, reply)
		}
	}
}

func TestComposeFoundWithoutCenter(t *testing.T) {
	record := &geocode.AddressRecord{
		Code:     "GA-123-4567",
		Street:   geocode.FieldUnavailable,
		District: geocode.FieldUnavailable,
		Region:   geocode.FieldUnavailable,
	}

	reply := ComposeFound(record)

	if strings.Contains(reply, "maps.google.com") {
		t.Errorf("Reply should not link a map without center coordinates:\n%s", reply)
	}
	if !strings.Contains(reply, geocode.FieldUnavailable) {
		t.Errorf("Reply should echo the N/A placeholders:\n%s", reply)
	}
}

func TestComposeNotFound(t *testing.T) {
	reply := ComposeNotFound("AK-325-9995")

	if !strings.Contains(reply, "AK-325-9995") {
		t.Errorf("Reply missing the code:\n%s", reply)
	}
	if !strings.Contains(reply, "GA1234567") || !strings.Contains(reply, "GA-123-4567") {
		t.Errorf("Reply missing format examples:\n%s", reply)
	}
}

func TestComposeLocation(t *testing.T) {
	reply := ComposeLocation(5.55, -0.2167, "GA-123-4567")

	if !strings.Contains(reply, "5.550000, -0.216700") {
		t.Errorf("Reply missing 6-decimal coordinates:\n%s", reply)
	}
	if !strings.Contains(reply, "GA-123-4567") {
		t.Errorf("Reply missing the code:\n%s", reply)
	}
	if !strings.Contains(reply, "https://maps.google.com?q=5.55,-0.2167") {
		t.Errorf("Reply missing the map link:\n%s", reply)
	}
}

func TestComposeLocationWithoutCode(t *testing.T) {
	reply := ComposeLocation(5.55, -0.2167, "")

	if !strings.Contains(reply, CodeUnavailable) {
		t.Errorf("Reply should show %q when reverse lookup failed:\n%s", CodeUnavailable, reply)
	}
	if !strings.Contains(reply, "https://maps.google.com?q=5.55,-0.2167") {
		t.Errorf("Partial reply should still link the map:\n%s", reply)
	}
}
