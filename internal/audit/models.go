package audit

import "time"

// Action names a catalog change.
type Action string

const (
	ActionCountryCreated Action = "country_created"
	ActionCountryUpdated Action = "country_updated"
	ActionCountryDeleted Action = "country_deleted"
)

// Event is emitted from the catalog service for every successful write. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	ID          string    `json:"id"`
	Action      Action    `json:"action"`
	CountryID   int64     `json:"country_id"`
	CountryName string    `json:"country_name"`
	Continent   string    `json:"continent,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	ClientIP    string    `json:"client_ip,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
