package model

// ReservationStatus tracks a reservation through its lifecycle.  PENDING
// is the only initial state.  APPROVED, REJECTED and CANCELLED are
// terminal with respect to user and admin actions; COMPLETED is reached
// only by an external time-based process.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationApproved  ReservationStatus = "APPROVED"
	ReservationRejected  ReservationStatus = "REJECTED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

// Terminal reports whether no further user or admin transition may leave
// the status.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationApproved || s == ReservationRejected ||
		s == ReservationCancelled || s == ReservationCompleted
}

// Reservation is a user's request to occupy a space for the half-open
// interval [StartTime, EndTime) on Date.  Space and user fields are
// denormalized at creation time so the record stays meaningful even if
// the space or user document changes later.  Reservations are never
// deleted, only transitioned; the local cache may be cleared wholesale
// on logout, which is a cache lifecycle event and not a domain deletion.
//
// CreatedAt is Unix milliseconds.  RejectionReason is set exactly when
// Status is REJECTED; ApprovedBy records the admin who approved.
type Reservation struct {
	ID              string            `json:"id" bson:"id"`
	SpaceID         string            `json:"spaceId" bson:"spaceId"`
	SpaceName       string            `json:"spaceName" bson:"spaceName"`
	SpaceType       SpaceType         `json:"spaceType" bson:"spaceType"`
	UserID          string            `json:"userId" bson:"userId"`
	UserName        string            `json:"userName" bson:"userName"`
	UserEmail       string            `json:"userEmail" bson:"userEmail"`
	Date            string            `json:"date" bson:"date"`
	StartTime       string            `json:"startTime" bson:"startTime"`
	EndTime         string            `json:"endTime" bson:"endTime"`
	Description     string            `json:"description" bson:"description"`
	Status          ReservationStatus `json:"status" bson:"status"`
	CreatedAt       int64             `json:"createdAt" bson:"createdAt"`
	ApprovedBy      string            `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	RejectionReason string            `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
}

// CreateReservationRequest carries the user-supplied fields of a new
// reservation.  Everything else (ids, denormalized space and user data,
// status, timestamps) is filled in by the lifecycle manager.
type CreateReservationRequest struct {
	SpaceID     string `json:"spaceId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
}
