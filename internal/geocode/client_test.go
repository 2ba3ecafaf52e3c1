package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ghanapost-gps-bot/internal/logger"
	"ghanapost-gps-bot/internal/metrics"
	"ghanapost-gps-bot/internal/postcode"
)

func newTestClient(t *testing.T, upstream http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	m := metrics.New(prometheus.NewRegistry())
	log := logger.New("error")
	return NewClient(server.URL, timeout, m, log)
}

func TestLookupFound(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Expected form content type, got %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		gotBody = r.PostForm.Get("address")
		_, _ = w.Write([]byte(`{"data":{"Table":[{"Street":"Ridge Road","District":"Accra","Region":"Greater Accra","CenterLatitude":5.6,"CenterLongitude":-0.2}]}}`))
	}, 5*time.Second)

	record := client.Lookup(context.Background(), postcode.Code("GA-123-4567"))
	if record == nil {
		t.Fatal("Expected a record, got nil")
	}
	if gotBody != "GA-123-4567" {
		t.Errorf("Expected address form field 'GA-123-4567', got %q", gotBody)
	}
	if record.Street != "Ridge Road" || record.District != "Accra" || record.Region != "Greater Accra" {
		t.Errorf("Unexpected record fields: %+v", record)
	}
	if !record.HasCenter() {
		t.Fatal("Expected center coordinates")
	}
	if *record.Latitude != 5.6 || *record.Longitude != -0.2 {
		t.Errorf("Unexpected coordinates: %v, %v", *record.Latitude, *record.Longitude)
	}
}

func TestLookupMissingFieldsFallBack(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"Table":[{"District":"Accra"}]}}`))
	}, 5*time.Second)

	record := client.Lookup(context.Background(), postcode.Code("GA-123-4567"))
	if record == nil {
		t.Fatal("Expected a record, got nil")
	}
	if record.Street != FieldUnavailable {
		t.Errorf("Expected street %q, got %q", FieldUnavailable, record.Street)
	}
	if record.Region != FieldUnavailable {
		t.Errorf("Expected region %q, got %q", FieldUnavailable, record.Region)
	}
	if record.HasCenter() {
		t.Error("Expected no center coordinates")
	}
}

func TestLookupEmptyTable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"Table":[]}}`))
	}, 5*time.Second)

	if record := client.Lookup(context.Background(), postcode.Code("GA-123-4567")); record != nil {
		t.Errorf("Expected nil for empty table, got %+v", record)
	}
}

func TestLookupUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 5*time.Second)

	if record := client.Lookup(context.Background(), postcode.Code("GA-123-4567")); record != nil {
		t.Errorf("Expected nil on 500, got %+v", record)
	}
}

func TestLookupMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}, 5*time.Second)

	if record := client.Lookup(context.Background(), postcode.Code("GA-123-4567")); record != nil {
		t.Errorf("Expected nil on malformed body, got %+v", record)
	}
}

func TestLookupTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"data":{"Table":[{}]}}`))
	}, 20*time.Millisecond)

	if record := client.Lookup(context.Background(), postcode.Code("GA-123-4567")); record != nil {
		t.Errorf("Expected nil on timeout, got %+v", record)
	}
}

func TestReverseLookup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if r.PostForm.Get("lat") == "" || r.PostForm.Get("long") == "" {
			t.Error("Expected lat and long form fields")
		}
		_, _ = w.Write([]byte(`{"data":{"gpscode":"GA-183-8164"}}`))
	}, 5*time.Second)

	code := client.ReverseLookup(context.Background(), 5.55, -0.2167)
	if code != "GA-183-8164" {
		t.Errorf("Expected code 'GA-183-8164', got %q", code)
	}
}

func TestReverseLookupNoCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}, 5*time.Second)

	if code := client.ReverseLookup(context.Background(), 5.55, -0.2167); code != "" {
		t.Errorf("Expected empty code, got %q", code)
	}
}

func TestReverseLookupUpstreamDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Connection refused from here on

	m := metrics.New(prometheus.NewRegistry())
	client := NewClient(server.URL, time.Second, m, logger.New("error"))

	if code := client.ReverseLookup(context.Background(), 5.55, -0.2167); code != "" {
		t.Errorf("Expected empty code on connection error, got %q", code)
	}
}
