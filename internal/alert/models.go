package alert

import "time"

const (
	StatusNew          = "NEW"
	StatusAcknowledged = "ACKNOWLEDGED"
)

// Alert is a distress report from a hiker. Rows are never deleted and the
// status moves NEW -> ACKNOWLEDGED exactly once.
type Alert struct {
	ID             int64      `json:"id"`
	HikerID        int64      `json:"hiker_id"`
	EmergencyType  string     `json:"emergency_type"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
}

type CreateInput struct {
	HikerID       int64    `json:"hiker_id"`
	EmergencyType string   `json:"emergency_type"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}
