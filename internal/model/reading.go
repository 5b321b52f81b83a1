package model

import "time"

// Property is one assessed residence.
type Property struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Region    string    `json:"region,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Room is a named location within a property. Readings may reference a
// room or apply to the whole property.
type Room struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Reading is one observed metric value recorded by a technician.
// Readings are immutable once recorded; corrections are new readings.
type Reading struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	RoomID     *string   `json:"room_id,omitempty"` // nil = whole-property
	MetricKey  string    `json:"metric_key"`
	Value      float64   `json:"value"`
	TakenAt    time.Time `json:"taken_at"`
}

// ShareLink grants read access to one property's report via an opaque token.
type ShareLink struct {
	Token      string    `json:"token"`
	PropertyID string    `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the link is past its expiry at the given time.
func (l ShareLink) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
