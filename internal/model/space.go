package model

// SpaceType classifies a reservable area.  The campus currently has two
// kinds: sports courts and gardens.
type SpaceType string

const (
	SpaceCourt  SpaceType = "COURT"
	SpaceGarden SpaceType = "GARDEN"
)

// Space is a reservable physical area.  Space records are owned by the
// remote store; this service only reads them during sync and never
// creates or mutates one.
//
// Fields:
//  ID          – document identifier in the remote store.
//  Name        – human-readable name ("Cancha 1", "Jardín Central").
//  Type        – COURT or GARDEN.
//  Description – free-text description shown to users.
//  Capacity    – maximum number of people.
//  IsActive    – inactive spaces are hidden and cannot be reserved.
type Space struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	Type        SpaceType `json:"type" bson:"type"`
	Description string    `json:"description" bson:"description"`
	Capacity    int       `json:"capacity" bson:"capacity"`
	IsActive    bool      `json:"isActive" bson:"isActive"`
}
