package location

import "time"

// Fix is the single latest reported position per hiker. The row is upserted
// on hiker_id; no location history is retained.
type Fix struct {
	HikerID   int64     `json:"hiker_id"`
	HikerName string    `json:"name,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}
