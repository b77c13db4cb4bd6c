package domain

import (
	"encoding/json"
	"time"
)

// Event is one org-scoped telemetry event (access denials, privileged
// mutations, invite reconciliations). Serialized as JSON onto the Kafka
// topic; the worker derives Loki labels from OrgID, EventType, and Source.
type Event struct {
	ID        string          `json:"id"`
	OrgID     string          `json:"orgId"`
	UserID    string          `json:"userId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	EventType string          `json:"eventType"`
	Source    string          `json:"source"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
