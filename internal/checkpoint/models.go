package checkpoint

import (
	"time"

	"github.com/dn1a1/ledang-hikers/internal/shared/movement"
)

// Checkpoint is one ordered stop along the route.
type Checkpoint struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusM   float64 `json:"radius_m"`
	OrderNo   int     `json:"order_no"`
	Active    bool    `json:"active"`
}

// Log is an append-only arrival record.
type Log struct {
	HikerID      int64     `json:"hiker_id"`
	CheckpointID int64     `json:"checkpoint_id"`
	CheckedAt    time.Time `json:"checked_at"`
}

// Progress is the dashboard row per hiker: movement status from the last GPS
// fix plus the most recently reached checkpoint.
type Progress struct {
	HikerID        int64           `json:"hiker_id"`
	HikerName      string          `json:"hiker_name"`
	CheckpointName *string         `json:"checkpoint_name"`
	CheckedAt      *time.Time      `json:"checked_at"`
	Status         movement.Status `json:"status"`
}
