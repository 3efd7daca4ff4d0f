package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	notifyThreshold = 75.0
	notifyTopN      = 5
)

type MatchedJob struct {
	Title   string  `json:"title"`
	Company string  `json:"company"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
}

type MatchesFoundEvent struct {
	Type      string       `json:"type"`
	Query     string       `json:"query"`
	Matches   []MatchedJob `json:"matches"`
	Timestamp string       `json:"timestamp"`
}

// Notifier pushes high-score matches to the tenant's open sockets.
// Everything here is best effort: a nil hub, no clients or a full
// buffer never affects the search result.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// NotifyMatches publishes the top scored jobs at or above the
// threshold. Input must already be sorted by score descending.
func (n *Notifier) NotifyMatches(tenantID uuid.UUID, query string, jobs []MatchedJob) {
	if n == nil || n.hub == nil || tenantID == uuid.Nil {
		return
	}

	top := make([]MatchedJob, 0, notifyTopN)
	for _, j := range jobs {
		if j.Score < notifyThreshold {
			continue
		}
		top = append(top, j)
		if len(top) == notifyTopN {
			break
		}
	}
	if len(top) == 0 {
		return
	}

	evt := MatchesFoundEvent{
		Type:      "matches_found",
		Query:     query,
		Matches:   top,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Publish(tenantID, b)
}
