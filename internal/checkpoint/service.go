package checkpoint

import (
	"context"
	"errors"
	"time"

	"github.com/dn1a1/ledang-hikers/internal/db"
	"github.com/dn1a1/ledang-hikers/internal/shared/movement"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, input Checkpoint) (Checkpoint, error) {
	if input.Name == "" {
		return Checkpoint{}, errors.New("name required")
	}
	if input.RadiusM <= 0 {
		input.RadiusM = 50
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO checkpoints (name, latitude, longitude, radius_m, order_no, active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, input.Name, input.Latitude, input.Longitude, input.RadiusM, input.OrderNo, input.Active)
	if err := row.Scan(&input.ID); err != nil {
		return Checkpoint{}, err
	}
	return input, nil
}

func (s *Service) List(ctx context.Context) ([]Checkpoint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, latitude, longitude, radius_m, order_no, active
		FROM checkpoints
		ORDER BY order_no
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkpoints []Checkpoint
	for rows.Next() {
		var cp Checkpoint
		if err := rows.Scan(&cp.ID, &cp.Name, &cp.Latitude, &cp.Longitude, &cp.RadiusM, &cp.OrderNo, &cp.Active); err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, cp)
	}
	return checkpoints, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM checkpoints WHERE id=$1`, id)
	return err
}

// ToggleActive flips the active flag and returns the new value.
func (s *Service) ToggleActive(ctx context.Context, id int64) (bool, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE checkpoints SET active = NOT active WHERE id=$1
		RETURNING active
	`, id)
	var active bool
	if err := row.Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}

// LogArrival appends an arrival record; repeats for the same hiker and
// checkpoint are dropped.
func (s *Service) LogArrival(ctx context.Context, hikerID, checkpointID int64, at time.Time) error {
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO checkpoint_logs (hiker_id, checkpoint_id, checked_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (hiker_id, checkpoint_id) DO NOTHING
	`, hikerID, checkpointID, at)
	return err
}

// Progress classifies every hiker by the age of their last fix and attaches
// the latest reached checkpoint. Recomputed from scratch on every call.
func (s *Service) Progress(ctx context.Context, now time.Time) ([]Progress, error) {
	lastFix := map[int64]time.Time{}
	fixRows, err := s.db.Query(ctx, `
		SELECT hiker_id, updated_at FROM lokasi_pendaki
	`)
	if err != nil {
		return nil, err
	}
	defer fixRows.Close()
	for fixRows.Next() {
		var hikerID int64
		var updatedAt time.Time
		if err := fixRows.Scan(&hikerID, &updatedAt); err != nil {
			return nil, err
		}
		lastFix[hikerID] = updatedAt
	}

	type lastLog struct {
		name      string
		checkedAt time.Time
	}
	lastLogs := map[int64]lastLog{}
	logRows, err := s.db.Query(ctx, `
		SELECT DISTINCT ON (cl.hiker_id) cl.hiker_id, c.name, cl.checked_at
		FROM checkpoint_logs cl
		JOIN checkpoints c ON c.id = cl.checkpoint_id
		ORDER BY cl.hiker_id, cl.checked_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer logRows.Close()
	for logRows.Next() {
		var hikerID int64
		var entry lastLog
		if err := logRows.Scan(&hikerID, &entry.name, &entry.checkedAt); err != nil {
			return nil, err
		}
		lastLogs[hikerID] = entry
	}

	hikerRows, err := s.db.Query(ctx, `
		SELECT id, name FROM hikers ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer hikerRows.Close()

	var progress []Progress
	for hikerRows.Next() {
		var p Progress
		if err := hikerRows.Scan(&p.HikerID, &p.HikerName); err != nil {
			return nil, err
		}
		p.Status = movement.Classify(lastFix[p.HikerID], now)
		if entry, ok := lastLogs[p.HikerID]; ok {
			name := entry.name
			checkedAt := entry.checkedAt
			p.CheckpointName = &name
			p.CheckedAt = &checkedAt
		}
		progress = append(progress, p)
	}
	return progress, nil
}
