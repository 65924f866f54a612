package qrsession

import (
	"context"
	"errors"

	"github.com/dn1a1/ledang-hikers/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrSessionInactive rejects a scan against a non-Active session.
	ErrSessionInactive = errors.New("qr session inactive or expired")
	// ErrSessionNotActive rejects displaying the token of a non-Active session.
	ErrSessionNotActive = errors.New("qr session is not active")
	// ErrTokenNotIssued means the session sits in the window between row
	// creation and token issuance; Reconcile repairs it.
	ErrTokenNotIssued = errors.New("qr token not issued yet")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Create deactivates any Active sessions the guider still holds, inserts the
// new session as Active with an empty token, then writes the token back.
// The two writes are not transactional: a failure after the insert leaves an
// Active session with an empty token, which Reconcile can repair because the
// token is a pure function of the session id.
func (s *Service) Create(ctx context.Context, input CreateInput) (Session, error) {
	if input.HikingDate == "" || input.GuiderID == "" || input.Capacity <= 0 {
		return Session{}, errors.New("hiking_date, guider_id and capacity required")
	}
	if input.QRType == "" {
		input.QRType = TypeCheckIn
	}
	if _, err := tokenTypeFor(input.QRType); err != nil {
		return Session{}, err
	}

	_, err := s.db.Exec(ctx, `
		UPDATE qr_sessions SET status=$3 WHERE guider_id=$1 AND status=$2
	`, input.GuiderID, StatusActive, StatusInactive)
	if err != nil {
		return Session{}, err
	}

	session := Session{
		ID:         uuid.NewString(),
		GuiderID:   input.GuiderID,
		HikingDate: input.HikingDate,
		Capacity:   input.Capacity,
		Status:     StatusActive,
		QRType:     input.QRType,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO qr_sessions (id, guider_id, hiking_date, capacity, current_count, status, qr_type, qr_value)
		VALUES ($1,$2,$3,$4,0,$5,$6,'')
		RETURNING created_at
	`, session.ID, session.GuiderID, session.HikingDate, session.Capacity, session.Status, session.QRType)
	if err := row.Scan(&session.CreatedAt); err != nil {
		return Session{}, err
	}

	token, err := EncodeToken(session.QRType, session.ID)
	if err != nil {
		return Session{}, err
	}
	if _, err := s.db.Exec(ctx, `
		UPDATE qr_sessions SET qr_value=$2 WHERE id=$1
	`, session.ID, token); err != nil {
		return Session{}, err
	}
	session.QRValue = token
	return session, nil
}

// Resolve looks up a scanned session id and succeeds only while it is Active.
func (s *Service) Resolve(ctx context.Context, sessionID string) (Session, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, guider_id, hiking_date, capacity, current_count, status, qr_type
		FROM qr_sessions WHERE id=$1 AND status=$2
	`, sessionID, StatusActive)

	var session Session
	err := row.Scan(&session.ID, &session.GuiderID, &session.HikingDate,
		&session.Capacity, &session.CurrentCount, &session.Status, &session.QRType)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionInactive
	}
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

// Deactivate is an unconditional status flip and is idempotent.
func (s *Service) Deactivate(ctx context.Context, sessionID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE qr_sessions SET status=$2 WHERE id=$1
	`, sessionID, StatusInactive)
	return err
}

// Display returns the token for rendering. Only Active sessions with an
// issued token may be shown.
func (s *Service) Display(ctx context.Context, sessionID string) (string, error) {
	row := s.db.QueryRow(ctx, `
		SELECT status, qr_value FROM qr_sessions WHERE id=$1
	`, sessionID)

	var status, value string
	if err := row.Scan(&status, &value); err != nil {
		return "", err
	}
	if status != StatusActive {
		return "", ErrSessionNotActive
	}
	if value == "" {
		return "", ErrTokenNotIssued
	}
	return value, nil
}

// Reconcile regenerates tokens for Active sessions stuck with an empty
// qr_value after a failed two-step create.
func (s *Service) Reconcile(ctx context.Context) ([]Session, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, qr_type FROM qr_sessions WHERE status=$1 AND qr_value=''
	`, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.QRType); err != nil {
			return nil, err
		}
		stale = append(stale, sess)
	}

	var repaired []Session
	for _, sess := range stale {
		token, err := EncodeToken(sess.QRType, sess.ID)
		if err != nil {
			return repaired, err
		}
		if _, err := s.db.Exec(ctx, `
			UPDATE qr_sessions SET qr_value=$2 WHERE id=$1
		`, sess.ID, token); err != nil {
			return repaired, err
		}
		sess.QRValue = token
		repaired = append(repaired, sess)
	}
	return repaired, nil
}

func (s *Service) List(ctx context.Context) ([]Session, error) {
	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.guider_id, g.name, s.hiking_date, s.capacity, s.current_count, s.status, s.qr_type, s.qr_value, s.created_at
		FROM qr_sessions s
		JOIN guiders g ON g.id = s.guider_id
		ORDER BY s.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.GuiderID, &sess.GuiderName, &sess.HikingDate,
			&sess.Capacity, &sess.CurrentCount, &sess.Status, &sess.QRType, &sess.QRValue, &sess.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// ActiveHikers lists the hikers declared into a session.
func (s *Service) ActiveHikers(ctx context.Context, sessionID string) ([]SessionHiker, error) {
	rows, err := s.db.Query(ctx, `
		SELECT d.hiker_id, h.name
		FROM declarations d
		JOIN hikers h ON h.id = d.hiker_id
		WHERE d.session_id=$1
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hikers []SessionHiker
	for rows.Next() {
		var sh SessionHiker
		if err := rows.Scan(&sh.HikerID, &sh.Name); err != nil {
			return nil, err
		}
		hikers = append(hikers, sh)
	}
	return hikers, nil
}
