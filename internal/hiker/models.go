package hiker

import "time"

// Hiker is one registered park visitor. IC is the national identity number.
type Hiker struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	IC               string    `json:"ic"`
	Phone            string    `json:"phone"`
	EmergencyContact string    `json:"emergency_contact"`
	CreatedAt        time.Time `json:"created_at"`
}

type RegisterInput struct {
	Name             string `json:"name"`
	IC               string `json:"ic"`
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergency_contact"`
}
