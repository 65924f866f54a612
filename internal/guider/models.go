package guider

import "time"

// Guider is a park guide. Fields other than the photo reference are
// immutable after registration.
type Guider struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Age        int       `json:"age"`
	Experience string    `json:"experience,omitempty"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
