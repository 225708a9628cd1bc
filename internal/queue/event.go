// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// Actions carried by a ReservationEvent.
const (
	ActionCreated   = "created"
	ActionApproved  = "approved"
	ActionRejected  = "rejected"
	ActionCancelled = "cancelled"
)

// EventsQueueName is the durable queue reservation lifecycle events are
// published to.
const EventsQueueName = "reservation.events"

// ReservationEvent is published on every reservation lifecycle
// transition.  It carries enough denormalized data for downstream
// consumers to log or notify without querying the stores.
type ReservationEvent struct {
	Action        string `json:"action"`
	ReservationID string `json:"reservation_id"`
	SpaceID       string `json:"space_id"`
	SpaceName     string `json:"space_name"`
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	ActorID       string `json:"actor_id,omitempty"` // approver for approvals
	Reason        string `json:"reason,omitempty"`   // rejection reason
	OccurredAt    string `json:"occurred_at"`
}
