package location

import (
	"context"
	"errors"
	"time"

	"github.com/dn1a1/ledang-hikers/internal/db"
	"github.com/dn1a1/ledang-hikers/internal/shared/geo"
	"github.com/dn1a1/ledang-hikers/internal/stream"
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// Accept stores a GPS report as the hiker's current position and logs any
// checkpoint the fix lands inside. Conflicting reports for the same hiker are
// serialized by the database, last write wins.
func (s *Service) Accept(ctx context.Context, input Fix) (Fix, error) {
	if input.HikerID == 0 || input.Latitude == 0 || input.Longitude == 0 {
		return Fix{}, errors.New("hiker_id, latitude and longitude required")
	}
	if input.UpdatedAt.IsZero() {
		input.UpdatedAt = time.Now()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO lokasi_pendaki (hiker_id, latitude, longitude, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (hiker_id) DO UPDATE
		SET latitude=EXCLUDED.latitude, longitude=EXCLUDED.longitude, updated_at=EXCLUDED.updated_at
	`, input.HikerID, input.Latitude, input.Longitude, input.UpdatedAt)
	if err != nil {
		return Fix{}, err
	}

	if s.hub != nil {
		s.hub.Publish(stream.TopicLocations, stream.NewEvent("update", "lokasi_pendaki", input))
	}

	if err := s.logCheckpointArrivals(ctx, input); err != nil {
		return Fix{}, err
	}
	return input, nil
}

// Live returns every hiker's latest fix joined with their name. Dashboards
// poll this on a short interval; stale reads are tolerated.
func (s *Service) Live(ctx context.Context) ([]Fix, error) {
	rows, err := s.db.Query(ctx, `
		SELECT l.hiker_id, h.name, l.latitude, l.longitude, l.updated_at
		FROM lokasi_pendaki l
		JOIN hikers h ON h.id = l.hiker_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fixes []Fix
	for rows.Next() {
		var f Fix
		if err := rows.Scan(&f.HikerID, &f.HikerName, &f.Latitude, &f.Longitude, &f.UpdatedAt); err != nil {
			return nil, err
		}
		fixes = append(fixes, f)
	}
	return fixes, nil
}

func (s *Service) logCheckpointArrivals(ctx context.Context, fix Fix) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, latitude, longitude, radius_m
		FROM checkpoints WHERE active = true
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type cp struct {
		id      int64
		lat     float64
		lng     float64
		radiusM float64
	}
	var reached []cp
	for rows.Next() {
		var c cp
		if err := rows.Scan(&c.id, &c.lat, &c.lng, &c.radiusM); err != nil {
			return err
		}
		distM := geo.HaversineKm(fix.Latitude, fix.Longitude, c.lat, c.lng) * 1000
		if distM <= c.radiusM {
			reached = append(reached, c)
		}
	}

	for _, c := range reached {
		tag, err := s.db.Exec(ctx, `
			INSERT INTO checkpoint_logs (hiker_id, checkpoint_id, checked_at)
			VALUES ($1,$2,$3)
			ON CONFLICT (hiker_id, checkpoint_id) DO NOTHING
		`, fix.HikerID, c.id, fix.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 && s.hub != nil {
			s.hub.Publish(stream.TopicCheckpoints, stream.NewEvent("insert", "checkpoint_logs", map[string]any{
				"hiker_id":      fix.HikerID,
				"checkpoint_id": c.id,
				"checked_at":    fix.UpdatedAt,
			}))
		}
	}
	return nil
}
