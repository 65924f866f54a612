package qrsession

import "time"

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

const (
	TypeCheckIn  = "CHECKIN"
	TypeCheckOut = "CHECKOUT"
)

// Session is one scannable check-in/check-out context for a guided group.
// A guider holds at most one Active session at a time.
type Session struct {
	ID           string    `json:"id"`
	GuiderID     string    `json:"guider_id"`
	GuiderName   string    `json:"guider_name,omitempty"`
	HikingDate   string    `json:"hiking_date"`
	Capacity     int       `json:"capacity"`
	CurrentCount int       `json:"current_count"`
	Status       string    `json:"status"`
	QRType       string    `json:"qr_type"`
	QRValue      string    `json:"qr_value"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateInput struct {
	HikingDate string `json:"hiking_date"`
	GuiderID   string `json:"guider_id"`
	Capacity   int    `json:"capacity"`
	QRType     string `json:"qr_type"`
}

// SessionHiker is one hiker declared into a session.
type SessionHiker struct {
	HikerID int64  `json:"hiker_id"`
	Name    string `json:"name"`
}
