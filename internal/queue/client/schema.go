package client

const (
	ScheduleSignedEventType  EventType = 1
	SettlementEventEventType EventType = 2
)

type EventType int

// ScheduleSignedEvent is emitted by the ledger gateway once the user has co-signed
// a scheduled deposit transfer. ScheduleId correlates the callback with the local
// deposit ticket; the signature proof rides along for schedule execution.
type ScheduleSignedEvent struct {
	EventType      EventType `json:"event_type"` // always 1
	ScheduleID     string    `json:"schedule_id"`
	SignatureProof string    `json:"signature_proof"`
	SignedAt       string    `json:"signed_at"`
}

func (e ScheduleSignedEvent) GetScheduleID() string {
	return e.ScheduleID
}
