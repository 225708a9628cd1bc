package model

// SlotStatus is the derived occupancy state of a time slot.  AVAILABLE,
// RESERVED and PENDING_APPROVAL are computed from the reservations that
// overlap the slot; BLOCKED is set administratively on explicitly
// configured slots and is never produced by derivation.
type SlotStatus string

const (
	SlotAvailable       SlotStatus = "AVAILABLE"
	SlotReserved        SlotStatus = "RESERVED"
	SlotPendingApproval SlotStatus = "PENDING_APPROVAL"
	SlotBlocked         SlotStatus = "BLOCKED"
)

// TimeSlot is a fixed time window for a space on a given date.  Date is an
// ISO date string (YYYY-MM-DD); StartTime and EndTime are 24-hour HH:mm
// strings forming the half-open interval [StartTime, EndTime).  The
// fixed-width format makes lexicographic comparison equivalent to
// chronological comparison, which the whole engine relies on.
//
// Status is a read model: it is recomputed from overlapping reservations
// on every sync and never set directly by a user action.  ReservedBy and
// ReservedByName carry the occupying reservation's requester when the
// slot is not AVAILABLE.
type TimeSlot struct {
	ID             string     `json:"id" bson:"id"`
	SpaceID        string     `json:"spaceId" bson:"spaceId"`
	Date           string     `json:"date" bson:"date"`
	StartTime      string     `json:"startTime" bson:"startTime"`
	EndTime        string     `json:"endTime" bson:"endTime"`
	Status         SlotStatus `json:"status" bson:"status"`
	ReservedBy     string     `json:"reservedBy,omitempty" bson:"reservedBy,omitempty"`
	ReservedByName string     `json:"reservedByName,omitempty" bson:"reservedByName,omitempty"`
	Description    string     `json:"description,omitempty" bson:"description,omitempty"`
}
