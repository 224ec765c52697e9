package events

import (
	"encoding/json"
	"time"
)

// Event types pushed to the browser.
const (
	TypePing              = "ping"
	TypeBootstrapProgress = "bootstrap_progress"
	TypeBootstrapComplete = "bootstrap_complete"
	TypeDashboardChanged  = "dashboard_changed"
)

// replayed to late subscribers, in this order
var stickyTypes = []string{TypeBootstrapProgress, TypeBootstrapComplete}

const version = 1

// Event is the envelope every SSE message carries. Seq grows by one per
// published event so the page can tell a replay from a fresh change.
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	Seq       uint64          `json:"seq"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// encode renders one envelope for the wire. Data that cannot be
// marshalled is left out instead of failing the publish.
func encode(reqID, typ string, seq uint64, at time.Time, data any) string {
	var raw json.RawMessage
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			raw = b
		}
	}
	b, _ := json.Marshal(Event{
		Type:      typ,
		Version:   version,
		Seq:       seq,
		At:        at.UTC(),
		RequestID: reqID,
		Data:      raw,
	})
	return string(b)
}

func sticky(typ string) bool {
	for _, t := range stickyTypes {
		if t == typ {
			return true
		}
	}
	return false
}
