package location

import (
	"context"
	"testing"
	"time"

	"github.com/dn1a1/ledang-hikers/internal/stream"

	"github.com/pashagolub/pgxmock/v3"
)

func TestAcceptUpsertsAndBroadcasts(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO lokasi_pendaki`).
		WithArgs(int64(7), 2.3771, 102.6080, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// no active checkpoint nearby
	mock.ExpectQuery(`SELECT id, latitude, longitude, radius_m`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "latitude", "longitude", "radius_m"}).
			AddRow(int64(1), 2.40, 102.70, 50.0))

	hub := stream.NewHub(nil)
	client := hub.Register(stream.TopicLocations)
	defer hub.Unregister(client)

	svc := NewService(mock, hub)
	fix, err := svc.Accept(context.Background(), Fix{HikerID: 7, Latitude: 2.3771, Longitude: 102.6080})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if fix.UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at to be stamped")
	}

	select {
	case <-client.Send:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("expected location broadcast")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAcceptLogsCheckpointArrival(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO lokasi_pendaki`).
		WithArgs(int64(7), 2.3771, 102.6080, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// checkpoint centered on the fix itself, well within radius
	mock.ExpectQuery(`SELECT id, latitude, longitude, radius_m`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "latitude", "longitude", "radius_m"}).
			AddRow(int64(3), 2.3771, 102.6080, 50.0))

	mock.ExpectExec(`INSERT INTO checkpoint_logs`).
		WithArgs(int64(7), int64(3), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	hub := stream.NewHub(nil)
	client := hub.Register(stream.TopicCheckpoints)
	defer hub.Unregister(client)

	svc := NewService(mock, hub)
	if _, err := svc.Accept(context.Background(), Fix{HikerID: 7, Latitude: 2.3771, Longitude: 102.6080}); err != nil {
		t.Fatalf("accept: %v", err)
	}

	select {
	case <-client.Send:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("expected checkpoint arrival broadcast")
	}
}

func TestAcceptDuplicateArrivalIsSilent(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO lokasi_pendaki`).
		WithArgs(int64(7), 2.3771, 102.6080, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT id, latitude, longitude, radius_m`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "latitude", "longitude", "radius_m"}).
			AddRow(int64(3), 2.3771, 102.6080, 50.0))
	// already logged: conflict, zero rows
	mock.ExpectExec(`INSERT INTO checkpoint_logs`).
		WithArgs(int64(7), int64(3), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	hub := stream.NewHub(nil)
	client := hub.Register(stream.TopicCheckpoints)
	defer hub.Unregister(client)

	svc := NewService(mock, hub)
	if _, err := svc.Accept(context.Background(), Fix{HikerID: 7, Latitude: 2.3771, Longitude: 102.6080}); err != nil {
		t.Fatalf("accept: %v", err)
	}

	select {
	case <-client.Send:
		t.Fatalf("duplicate arrival must not broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAcceptValidation(t *testing.T) {
	svc := NewService(nil, nil)
	if _, err := svc.Accept(context.Background(), Fix{HikerID: 7}); err == nil {
		t.Fatalf("expected error for missing coordinates")
	}
	if _, err := svc.Accept(context.Background(), Fix{Latitude: 1, Longitude: 1}); err == nil {
		t.Fatalf("expected error for missing hiker id")
	}
}

func TestLive(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT l.hiker_id, h.name, l.latitude, l.longitude, l.updated_at`).
		WillReturnRows(pgxmock.NewRows([]string{"hiker_id", "name", "latitude", "longitude", "updated_at"}).
			AddRow(int64(7), "Aminah", 2.3771, 102.6080, time.Now()).
			AddRow(int64(9), "Farid", 2.3800, 102.6100, time.Now()))

	svc := NewService(mock, nil)
	fixes, err := svc.Live(context.Background())
	if err != nil || len(fixes) != 2 {
		t.Fatalf("live: %v", err)
	}
	if fixes[0].HikerName != "Aminah" {
		t.Fatalf("expected hiker name join")
	}
}
