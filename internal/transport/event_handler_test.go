package transport

import (
	"net/http"
	"testing"
	"time"

	"bakery-api/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func eventBody(start, end time.Time) map[string]any {
	return map[string]any{
		"title":       "Feria del pan",
		"description": "Annual fair",
		"start_date":  start.Format(time.RFC3339),
		"end_date":    end.Format(time.RFC3339),
		"location":    "Plaza",
	}
}

func TestEvent_CreateAndExpandOrganizer(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)
	start := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)

	w := env.do(http.MethodPost, "/api/events", token, eventBody(start, start.Add(4*time.Hour)))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created domain.Event
	decodeEnvelope(t, w, &created)
	if created.Status != domain.EventStatusActive || created.Image != domain.DefaultEventImage {
		t.Errorf("defaults not applied: %+v", created)
	}

	w = env.do(http.MethodGet, "/api/events/"+created.ID.String(), token, nil)
	var event domain.Event
	decodeEnvelope(t, w, &event)
	if event.Organizer == nil || event.Organizer.Email != "ana@x.com" {
		t.Errorf("expected organizer expanded, got %+v", event.Organizer)
	}

	w = env.do(http.MethodGet, "/api/events?status=active&expand=", token, nil)
	var events []domain.Event
	decodeEnvelope(t, w, &events)
	if len(events) != 1 || events[0].Organizer != nil {
		t.Errorf("expected one unexpanded event, got %+v", events)
	}
}

func TestEvent_MalformedDateIsItemized(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)
	start := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)

	body := eventBody(start, start.Add(time.Hour))
	body["start_date"] = "2024-01-01"
	body["title"] = ""
	w := env.do(http.MethodPost, "/api/events", token, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w, nil)
	if !hasField(resp, "start_date") || !hasField(resp, "title") {
		t.Errorf("expected start_date and title violations, got %+v", resp.Errors)
	}
}

// Feature: bakery-api, Property: End date never precedes start date
func TestProperty_EventDateOrderOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)
	properties := gopter.NewProperties(nil)

	properties.Property("creating or updating with end before start returns an end_date violation", prop.ForAll(
		func(hours int) bool {
			start := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
			w := env.do(http.MethodPost, "/api/events", token, eventBody(start, start.Add(-time.Duration(hours)*time.Hour)))
			if w.Code != http.StatusBadRequest || !hasField(decodeEnvelope(t, w, nil), "end_date") {
				t.Logf("FAIL: create accepted end before start: %d", w.Code)
				return false
			}

			w = env.do(http.MethodPost, "/api/events", token, eventBody(start, start.Add(time.Hour)))
			var event domain.Event
			decodeEnvelope(t, w, &event)

			w = env.do(http.MethodPut, "/api/events/"+event.ID.String(), token, map[string]any{
				"start_date": start.Add(time.Duration(hours+1) * time.Hour).Format(time.RFC3339),
			})
			return w.Code == http.StatusBadRequest && hasField(decodeEnvelope(t, w, nil), "end_date")
		},
		gen.IntRange(1, 72),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestEvent_UpdateViaCollectionAndDelete(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp(t, "ana@x.com", domain.RoleUser)
	start := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)

	w := env.do(http.MethodPost, "/api/events", token, eventBody(start, start.Add(time.Hour)))
	var event domain.Event
	decodeEnvelope(t, w, &event)

	w = env.do(http.MethodPut, "/api/events", token, map[string]any{"id": event.ID.String(), "status": "cancelled"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var updated domain.Event
	decodeEnvelope(t, w, &updated)
	if updated.Status != domain.EventStatusCancelled || updated.Title != event.Title {
		t.Errorf("unexpected merge result %+v", updated)
	}

	if w := env.do(http.MethodPut, "/api/events/"+event.ID.String(), token, map[string]any{"status": "postponed"}); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown status, got %d", w.Code)
	}

	if w := env.do(http.MethodDelete, "/api/events/"+event.ID.String(), token, nil); w.Code != http.StatusOK {
		t.Errorf("delete: %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/events/"+event.ID.String(), token, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}
