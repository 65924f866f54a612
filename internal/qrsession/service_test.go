package qrsession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

var errQuery = errors.New("query failed")

func TestCreateDeactivatesPriorActives(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE qr_sessions SET status=\$3 WHERE guider_id`).
		WithArgs("guider-1", StatusActive, StatusInactive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectQuery(`INSERT INTO qr_sessions`).
		WithArgs(pgxmock.AnyArg(), "guider-1", "2026-01-06", 10, StatusActive, TypeCheckIn).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	mock.ExpectExec(`UPDATE qr_sessions SET qr_value=\$2 WHERE id=\$1`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock)
	session, err := svc.Create(context.Background(), CreateInput{
		HikingDate: "2026-01-06",
		GuiderID:   "guider-1",
		Capacity:   10,
		QRType:     TypeCheckIn,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if session.Status != StatusActive {
		t.Fatalf("expected active session")
	}
	if session.CurrentCount != 0 {
		t.Fatalf("expected zero current count")
	}

	tok, err := DecodeToken(session.QRValue)
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if tok.Type != TokenTypeCheckIn {
		t.Fatalf("unexpected token type: %s", tok.Type)
	}
	if tok.SessionID != session.ID {
		t.Fatalf("token session id mismatch")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Create(context.Background(), CreateInput{GuiderID: "g", Capacity: 5})
	if err == nil {
		t.Fatalf("expected error for missing date")
	}

	_, err = svc.Create(context.Background(), CreateInput{HikingDate: "2026-01-06", GuiderID: "g", Capacity: 5, QRType: "BOGUS"})
	if err == nil {
		t.Fatalf("expected error for unknown qr type")
	}
}

func TestCreateCheckoutTokenType(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE qr_sessions SET status`).
		WithArgs("guider-2", StatusActive, StatusInactive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`INSERT INTO qr_sessions`).
		WithArgs(pgxmock.AnyArg(), "guider-2", "2026-01-07", 8, StatusActive, TypeCheckOut).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(`UPDATE qr_sessions SET qr_value`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock)
	session, err := svc.Create(context.Background(), CreateInput{
		HikingDate: "2026-01-07",
		GuiderID:   "guider-2",
		Capacity:   8,
		QRType:     TypeCheckOut,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	tok, err := DecodeToken(session.QRValue)
	if err != nil || tok.Type != TokenTypeCheckOut {
		t.Fatalf("expected checkout token, got %+v err %v", tok, err)
	}
}

func TestCreateTokenUpdateError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE qr_sessions SET status`).
		WithArgs("guider-1", StatusActive, StatusInactive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(`INSERT INTO qr_sessions`).
		WithArgs(pgxmock.AnyArg(), "guider-1", "2026-01-06", 10, StatusActive, TypeCheckIn).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(`UPDATE qr_sessions SET qr_value`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errQuery)

	svc := NewService(mock)
	_, err = svc.Create(context.Background(), CreateInput{
		HikingDate: "2026-01-06", GuiderID: "guider-1", Capacity: 10,
	})
	if err == nil {
		t.Fatalf("expected token issuance error")
	}
}

func TestResolveActive(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, guider_id, hiking_date, capacity, current_count, status, qr_type`).
		WithArgs("sess-1", StatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"id", "guider_id", "hiking_date", "capacity", "current_count", "status", "qr_type"}).
			AddRow("sess-1", "guider-1", "2026-01-06", 10, 3, StatusActive, TypeCheckIn))

	svc := NewService(mock)
	session, err := svc.Resolve(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if session.ID != "sess-1" || session.Status != StatusActive {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestResolveInactive(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, guider_id, hiking_date, capacity, current_count, status, qr_type`).
		WithArgs("sess-old", StatusActive).
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock)
	_, err = svc.Resolve(context.Background(), "sess-old")
	if !errors.Is(err, ErrSessionInactive) {
		t.Fatalf("expected ErrSessionInactive, got %v", err)
	}
}

func TestDeactivateIdempotent(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE qr_sessions SET status=\$2 WHERE id=\$1`).
		WithArgs("sess-1", StatusInactive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE qr_sessions SET status=\$2 WHERE id=\$1`).
		WithArgs("sess-1", StatusInactive).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	svc := NewService(mock)
	if err := svc.Deactivate(context.Background(), "sess-1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	// already inactive: matches zero rows, still no error
	if err := svc.Deactivate(context.Background(), "sess-1"); err != nil {
		t.Fatalf("second deactivate: %v", err)
	}
}

func TestDisplayGuards(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	svc := NewService(mock)

	mock.ExpectQuery(`SELECT status, qr_value FROM qr_sessions`).
		WithArgs("sess-1").
		WillReturnRows(pgxmock.NewRows([]string{"status", "qr_value"}).AddRow(StatusActive, `{"type":"LEDANG_CHECKIN","session_id":"sess-1"}`))
	value, err := svc.Display(context.Background(), "sess-1")
	if err != nil || value == "" {
		t.Fatalf("display active: %v", err)
	}

	mock.ExpectQuery(`SELECT status, qr_value FROM qr_sessions`).
		WithArgs("sess-2").
		WillReturnRows(pgxmock.NewRows([]string{"status", "qr_value"}).AddRow(StatusInactive, "whatever"))
	_, err = svc.Display(context.Background(), "sess-2")
	if !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("expected ErrSessionNotActive, got %v", err)
	}

	mock.ExpectQuery(`SELECT status, qr_value FROM qr_sessions`).
		WithArgs("sess-3").
		WillReturnRows(pgxmock.NewRows([]string{"status", "qr_value"}).AddRow(StatusActive, ""))
	_, err = svc.Display(context.Background(), "sess-3")
	if !errors.Is(err, ErrTokenNotIssued) {
		t.Fatalf("expected ErrTokenNotIssued, got %v", err)
	}
}

func TestReconcileRegeneratesTokens(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, qr_type FROM qr_sessions WHERE status=\$1 AND qr_value=''`).
		WithArgs(StatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"id", "qr_type"}).
			AddRow("sess-a", TypeCheckIn).
			AddRow("sess-b", TypeCheckOut))

	mock.ExpectExec(`UPDATE qr_sessions SET qr_value`).
		WithArgs("sess-a", `{"type":"LEDANG_CHECKIN","session_id":"sess-a"}`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE qr_sessions SET qr_value`).
		WithArgs("sess-b", `{"type":"LEDANG_CHECKOUT","session_id":"sess-b"}`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock)
	repaired, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(repaired) != 2 {
		t.Fatalf("expected 2 repaired sessions, got %d", len(repaired))
	}
	for _, sess := range repaired {
		tok, err := DecodeToken(sess.QRValue)
		if err != nil || tok.SessionID != sess.ID {
			t.Fatalf("repaired token mismatch: %+v err %v", tok, err)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReconcileNothingToDo(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, qr_type FROM qr_sessions`).
		WithArgs(StatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"id", "qr_type"}))

	svc := NewService(mock)
	repaired, err := svc.Reconcile(context.Background())
	if err != nil || len(repaired) != 0 {
		t.Fatalf("expected empty reconcile, got %v %v", repaired, err)
	}
}

func TestListAndActiveHikers(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT s.id, s.guider_id, g.name`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "guider_id", "name", "hiking_date", "capacity", "current_count", "status", "qr_type", "qr_value", "created_at"}).
			AddRow("sess-1", "guider-1", "Pak Samad", "2026-01-06", 10, 4, StatusActive, TypeCheckIn, "tok", time.Now()))

	svc := NewService(mock)
	sessions, err := svc.List(context.Background())
	if err != nil || len(sessions) != 1 {
		t.Fatalf("list: %v", err)
	}
	if sessions[0].GuiderName != "Pak Samad" {
		t.Fatalf("expected guider name join")
	}

	mock.ExpectQuery(`SELECT d.hiker_id, h.name`).
		WithArgs("sess-1").
		WillReturnRows(pgxmock.NewRows([]string{"hiker_id", "name"}).
			AddRow(int64(7), "Aminah").
			AddRow(int64(9), "Farid"))

	hikers, err := svc.ActiveHikers(context.Background(), "sess-1")
	if err != nil || len(hikers) != 2 {
		t.Fatalf("active hikers: %v", err)
	}
	if hikers[0].HikerID != 7 || hikers[1].Name != "Farid" {
		t.Fatalf("unexpected hikers: %+v", hikers)
	}
}
