package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"ghanapost-gps-bot/internal/geocode"
	"ghanapost-gps-bot/internal/logger"
	"ghanapost-gps-bot/internal/metrics"
	"ghanapost-gps-bot/internal/postcode"
)

type stubGeocoder struct {
	records map[postcode.Code]*geocode.AddressRecord
	reverse string
	panics  bool

	lookedUp postcode.Code
}

func (g *stubGeocoder) Lookup(_ context.Context, code postcode.Code) *geocode.AddressRecord {
	if g.panics {
		panic("upstream client broke")
	}
	g.lookedUp = code
	return g.records[code]
}

func (g *stubGeocoder) ReverseLookup(context.Context, float64, float64) string {
	return g.reverse
}

type stubScanner struct {
	payload string
	err     error
}

func (s *stubScanner) Payload(context.Context, string) (string, error) {
	return s.payload, s.err
}

func newTestResponder(g *stubGeocoder, s *stubScanner) *Responder {
	m := metrics.New(prometheus.NewRegistry())
	return NewResponder(g, s, m, logger.New("error"))
}

func ridgeRoadRecord() *geocode.AddressRecord {
	return &geocode.AddressRecord{
		Code:      "GA-123-4567",
		Street:    "Ridge Road",
		District:  "Accra",
		Region:    "Greater Accra",
		Latitude:  floatPtr(5.6),
		Longitude: floatPtr(-0.2),
	}
}

func TestRespondDirectLookup(t *testing.T) {
	g := &stubGeocoder{records: map[postcode.Code]*geocode.AddressRecord{
		"GA-123-4567": ridgeRoadRecord(),
	}}
	r := newTestResponder(g, &stubScanner{})

	reply := r.Respond(context.Background(), InboundMessage{Text: "GA1234567"})

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
	if g.lookedUp != "GA-123-4567" {
		t.Errorf("Gateway received %q, want the normalized code", g.lookedUp)
	}
}

func TestRespondDirectLookupNotFound(t *testing.T) {
	r := newTestResponder(&stubGeocoder{}, &stubScanner{})

	reply := r.Respond(context.Background(), InboundMessage{Text: "AK-325-9995"})

	if !strings.Contains(reply, "not found") || !strings.Contains(reply, "AK-325-9995") {
		t.Errorf("Expected a not-found reply naming the code:\n%s", reply)
	}
}

func TestRespondHelp(t *testing.T) {
	r := newTestResponder(&stubGeocoder{}, &stubScanner{})

	reply := r.Respond(context.Background(), InboundMessage{Text: "hello"})

	if reply != MsgHelp {
		t.Errorf("Respond(hello) = %q, want the help message", reply)
	}
}

func TestRespondQrLookup(t *testing.T) {
	g := &stubGeocoder{records: map[postcode.Code]*geocode.AddressRecord{
		"AK-325-9995": {
			Code:     "AK-325-9995",
			Street:   "Harper Road",
			District: "Kumasi",
			Region:   "Ashanti",
		},
	}}
	s := &stubScanner{payload: "random noise AK-325-9995 more noise"}
	r := newTestResponder(g, s)

	reply := r.Respond(context.Background(), InboundMessage{MediaURL: "https://api.twilio.com/media/1"})

	if !strings.Contains(reply, "AK-325-9995") || !strings.Contains(reply, "Harper Road") {
		t.Errorf("QR lookup should resolve the embedded code:\n%s", reply)
	}
}

func TestRespondQrLookupNotFound(t *testing.T) {
	s := &stubScanner{payload: "random noise AK-325-9995 more noise"}
	r := newTestResponder(&stubGeocoder{}, s)

	reply := r.Respond(context.Background(), InboundMessage{MediaURL: "https://api.twilio.com/media/1"})

	if !strings.Contains(reply, "not found") || !strings.Contains(reply, "AK-325-9995") {
		t.Errorf("Expected a not-found reply naming the extracted code:\n%s", reply)
	}
}

func TestRespondQrUnreadable(t *testing.T) {
	s := &stubScanner{err: errors.New("no QR code found in image")}
	r := newTestResponder(&stubGeocoder{}, s)

	reply := r.Respond(context.Background(), InboundMessage{MediaURL: "https://api.twilio.com/media/1"})

	if reply != MsgQRUnreadable {
		t.Errorf("Respond = %q, want the unreadable-QR message", reply)
	}
}

func TestRespondQrPayloadWithoutCode(t *testing.T) {
	s := &stubScanner{payload: "https://example.com/totally-unrelated"}
	r := newTestResponder(&stubGeocoder{}, s)

	reply := r.Respond(context.Background(), InboundMessage{MediaURL: "https://api.twilio.com/media/1"})

	if reply != MsgQRNoCode {
		t.Errorf("Respond = %q, want the no-code message", reply)
	}
}

func TestRespondLocation(t *testing.T) {
	g := &stubGeocoder{reverse: "GA-183-8164"}
	r := newTestResponder(g, &stubScanner{})

	reply := r.Respond(context.Background(), InboundMessage{
		Latitude:  floatPtr(5.55),
		Longitude: floatPtr(-0.2167),
	})

	if !strings.Contains(reply, "GA-183-8164") {
		t.Errorf("Reply missing the reverse-geocoded code:\n%s", reply)
	}
	if !strings.Contains(reply, "5.550000, -0.216700") {
		t.Errorf("Reply missing the echoed coordinates:\n%s", reply)
	}
}

func TestRespondLocationDegraded(t *testing.T) {
	r := newTestResponder(&stubGeocoder{}, &stubScanner{})

	reply := r.Respond(context.Background(), InboundMessage{
		Latitude:  floatPtr(5.55),
		Longitude: floatPtr(-0.2167),
	})

	if !strings.Contains(reply, "5.550000, -0.216700") {
		t.Errorf("Degraded reply missing coordinates:\n%s", reply)
	}
	if !strings.Contains(reply, CodeUnavailable) {
		t.Errorf("Degraded reply missing %q:\n%s", CodeUnavailable, reply)
	}
}

func TestRespondRecoversFromPanic(t *testing.T) {
	r := newTestResponder(&stubGeocoder{panics: true}, &stubScanner{})

	reply := r.Respond(context.Background(), InboundMessage{Text: "GA1234567"})

	if reply != MsgServerError {
		t.Errorf("Respond = %q, want the server-error message after a panic", reply)
	}
}
