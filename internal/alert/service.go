package alert

import (
	"context"
	"errors"
	"time"

	"github.com/dn1a1/ledang-hikers/internal/db"
	"github.com/dn1a1/ledang-hikers/internal/stream"
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// Create records a distress report and notifies monitoring clients.
func (s *Service) Create(ctx context.Context, input CreateInput) (Alert, error) {
	if input.HikerID == 0 || input.EmergencyType == "" {
		return Alert{}, errors.New("hiker_id and emergency_type required")
	}

	a := Alert{
		HikerID:       input.HikerID,
		EmergencyType: input.EmergencyType,
		Status:        StatusNew,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO emergency_alerts (hiker_id, emergency_type, status, latitude, longitude)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at
	`, a.HikerID, a.EmergencyType, a.Status, a.Latitude, a.Longitude)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return Alert{}, err
	}

	if s.hub != nil {
		s.hub.Publish(stream.TopicAlerts, stream.NewEvent("insert", "emergency_alerts", a))
	}
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]Alert, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, hiker_id, emergency_type, status, created_at, acknowledged_at, latitude, longitude
		FROM emergency_alerts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.HikerID, &a.EmergencyType, &a.Status,
			&a.CreatedAt, &a.AcknowledgedAt, &a.Latitude, &a.Longitude); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

// Acknowledge flips a NEW alert to ACKNOWLEDGED and stamps the time. The
// status filter makes a repeated call match zero rows, so the transition
// happens at most once and is never double-recorded.
func (s *Service) Acknowledge(ctx context.Context, id int64, now time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE emergency_alerts
		SET status=$2, acknowledged_at=$3
		WHERE id=$1 AND status=$4
	`, id, StatusAcknowledged, now, StatusNew)
	if err != nil {
		return false, err
	}

	changed := tag.RowsAffected() > 0
	if changed && s.hub != nil {
		s.hub.Publish(stream.TopicAlerts, stream.NewEvent("update", "emergency_alerts", map[string]any{
			"id":              id,
			"status":          StatusAcknowledged,
			"acknowledged_at": now,
		}))
	}
	return changed, nil
}
