package notify

import (
	"encoding/json"
	"time"
)

const (
	EventLogin             = "login"
	EventAccountCreated    = "account_created"
	EventTransferInitiated = "transfer_initiated"
	EventTransferCompleted = "transfer_completed"
	EventTransferFailed    = "transfer_failed"
	EventDashboardServed   = "dashboard_served"
)

// ActivityEvent is one entry of the activity stream published to the audit
// exchange and consumed by the audit worker.
type ActivityEvent struct {
	Kind      string    `json:"kind"`
	UserID    string    `json:"userId"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

func NewActivityEvent(kind, userID, detail string) *ActivityEvent {
	return &ActivityEvent{
		Kind:      kind,
		UserID:    userID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}

func (e *ActivityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ActivityEventFromJSON(data []byte) (*ActivityEvent, error) {
	var e ActivityEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
