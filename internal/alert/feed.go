package alert

import (
	"encoding/json"
	"sync"

	"github.com/dn1a1/ledang-hikers/internal/stream"
)

// FeedConfig is passed in explicitly per client instead of living in ambient
// client-local storage, so the alarm decision is testable.
type FeedConfig struct {
	SoundEnabled bool
}

// Feed holds a monitoring client's in-memory alert state. Change events are
// at-least-once and unordered, so Apply dedupes by alert id before appending.
type Feed struct {
	cfg FeedConfig

	mu     sync.Mutex
	byID   map[int64]int
	alerts []Alert
}

func NewFeed(cfg FeedConfig) *Feed {
	return &Feed{
		cfg:  cfg,
		byID: map[int64]int{},
	}
}

// Seed replaces the feed contents from a full fetch.
func (f *Feed) Seed(alerts []Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.alerts = make([]Alert, len(alerts))
	copy(f.alerts, alerts)
	f.byID = make(map[int64]int, len(alerts))
	for i, a := range alerts {
		f.byID[a.ID] = i
	}
}

// Apply consumes one change event and reports whether this client should
// sound its alarm: only a not-yet-seen insert with status NEW qualifies, and
// only when the client enabled sound.
func (f *Feed) Apply(ev stream.Event) (sound bool) {
	if ev.Table != "emergency_alerts" {
		return false
	}

	var a Alert
	if err := json.Unmarshal(ev.Payload, &a); err != nil || a.ID == 0 {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	idx, seen := f.byID[a.ID]
	switch ev.Event {
	case "insert":
		if seen {
			return false
		}
		f.alerts = append([]Alert{a}, f.alerts...)
		f.reindex()
		return f.cfg.SoundEnabled && a.Status == StatusNew
	case "update":
		if !seen {
			return false
		}
		if a.Status != "" {
			f.alerts[idx].Status = a.Status
		}
		if a.AcknowledgedAt != nil {
			f.alerts[idx].AcknowledgedAt = a.AcknowledgedAt
		}
	}
	return false
}

// AckLocal mirrors a confirmed acknowledge into local state. Callers invoke
// it only after the persistence call succeeded.
func (f *Feed) AckLocal(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if idx, ok := f.byID[id]; ok {
		f.alerts[idx].Status = StatusAcknowledged
	}
}

// Quiet reports whether no NEW alerts remain, i.e. the alarm may stop.
func (f *Feed) Quiet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.alerts {
		if a.Status == StatusNew {
			return false
		}
	}
	return true
}

func (f *Feed) Alerts() []Alert {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Alert, len(f.alerts))
	copy(out, f.alerts)
	return out
}

func (f *Feed) reindex() {
	f.byID = make(map[int64]int, len(f.alerts))
	for i, a := range f.alerts {
		f.byID[a.ID] = i
	}
}
