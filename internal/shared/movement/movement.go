package movement

import "time"

// Status is the safety bucket derived from the age of a hiker's last GPS fix.
// The string values are part of the API contract consumed by dashboards.
type Status string

const (
	OnTrack    Status = "ON_TRACK"
	Delayed    Status = "DELAYED"
	NoMovement Status = "NO_MOVEMENT"
)

const (
	// OnTrackWindow is the maximum fix age still considered on track.
	OnTrackWindow = 5 * time.Minute
	// DelayedWindow is the maximum fix age still considered merely delayed.
	DelayedWindow = 15 * time.Minute
)

// Classify maps the last fix time to a status. A zero lastFix means the hiker
// never reported a position. Boundary ages fall into the higher-severity
// bucket: exactly 5 minutes is Delayed, exactly 15 minutes is NoMovement.
func Classify(lastFix, now time.Time) Status {
	if lastFix.IsZero() {
		return NoMovement
	}
	age := now.Sub(lastFix)
	switch {
	case age < OnTrackWindow:
		return OnTrack
	case age < DelayedWindow:
		return Delayed
	default:
		return NoMovement
	}
}
