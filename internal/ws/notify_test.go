package ws

import (
	"encoding/json"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNotifier_ThresholdAndTopN(t *testing.T) {
	hub := NewHub(log.New(os.Stderr, "", log.LstdFlags))
	n := NewNotifier(hub)

	tenantID := uuid.New()
	jobs := []MatchedJob{
		{Title: "A", Score: 99},
		{Title: "B", Score: 92},
		{Title: "C", Score: 88},
		{Title: "D", Score: 80},
		{Title: "E", Score: 76},
		{Title: "F", Score: 75.5},
		{Title: "G", Score: 74.9},
	}

	n.NotifyMatches(tenantID, "data engineer", jobs)

	select {
	case msg := <-hub.publish:
		if msg.tenantID != tenantID {
			t.Fatalf("event for wrong tenant")
		}
		var evt MatchesFoundEvent
		if err := json.Unmarshal(msg.payload, &evt); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if evt.Type != "matches_found" {
			t.Fatalf("unexpected event type %q", evt.Type)
		}
		if len(evt.Matches) != 5 {
			t.Fatalf("expected top 5, got %d", len(evt.Matches))
		}
		for _, m := range evt.Matches {
			if m.Score < 75 {
				t.Fatalf("below-threshold match leaked: %+v", m)
			}
		}
	case <-time.After(time.Second):
		t.Fatalf("no event published")
	}
}

func TestNotifier_NoEventBelowThreshold(t *testing.T) {
	hub := NewHub(nil)
	n := NewNotifier(hub)

	n.NotifyMatches(uuid.New(), "x", []MatchedJob{{Title: "A", Score: 60}})

	select {
	case <-hub.publish:
		t.Fatalf("unexpected event for sub-threshold scores")
	default:
	}
}
