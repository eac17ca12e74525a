package event

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"vex-tracker/internal/api"
	"vex-tracker/internal/config"
)

func eventsEndpoint(t *testing.T, results []map[string]any) *api.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			t.Errorf("path = %q, want /events", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"meta": map[string]int{"current_page": 1, "last_page": 1},
			"data": results,
		})
	}))
	t.Cleanup(ts.Close)
	return api.NewClient(&config.Config{APIBaseURL: ts.URL, APIToken: "t"})
}

func TestResolveSKUReturnsFirstResult(t *testing.T) {
	client := eventsEndpoint(t, []map[string]any{
		{"id": 10, "sku": "RE-VRC-23-0001", "name": "first"},
		{"id": 11, "sku": "RE-VRC-23-0001", "name": "second"},
	})

	h, err := Resolve(context.Background(), client, "RE-VRC-23-0001")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if h.ID() != 10 {
		t.Errorf("ID = %d, want first result's id 10", h.ID())
	}
}

func TestResolveIDDispatchesNumeric(t *testing.T) {
	client := eventsEndpoint(t, []map[string]any{
		{"id": 42, "sku": "RE-VRC-23-0002", "name": "by id"},
	})

	for _, identifier := range []any{42, int32(42), int64(42)} {
		h, err := Resolve(context.Background(), client, identifier)
		if err != nil {
			t.Fatalf("Resolve(%T): %v", identifier, err)
		}
		if h.SKU() != "RE-VRC-23-0002" {
			t.Errorf("Resolve(%T) sku = %q", identifier, h.SKU())
		}
	}
}

func TestResolveZeroResultsIsNotFound(t *testing.T) {
	client := eventsEndpoint(t, []map[string]any{})

	_, err := Resolve(context.Background(), client, "RE-VRC-99-9999")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("want *NotFoundError, got %v", err)
	}
	if notFound.Identifier != "RE-VRC-99-9999" {
		t.Errorf("Identifier = %q", notFound.Identifier)
	}
	if !strings.Contains(err.Error(), "RE-VRC-99-9999") {
		t.Errorf("error message %q does not reference the sku", err.Error())
	}
}

func TestResolveRejectsUnsupportedTypes(t *testing.T) {
	client := eventsEndpoint(t, nil)

	for _, identifier := range []any{3.14, true, nil, []string{"x"}} {
		_, err := Resolve(context.Background(), client, identifier)
		var invalid *InvalidArgumentError
		if !errors.As(err, &invalid) {
			t.Errorf("Resolve(%T): want *InvalidArgumentError, got %v", identifier, err)
		}
	}
}

func TestResolveTransportFailurePropagates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)
	client := api.NewClient(&config.Config{APIBaseURL: ts.URL, APIToken: "t"})

	_, err := Resolve(context.Background(), client, "RE-VRC-23-0001")
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *api.APIError, got %v", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d", apiErr.Status)
	}
}
