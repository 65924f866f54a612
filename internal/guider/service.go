package guider

import (
	"context"
	"errors"

	"github.com/dn1a1/ledang-hikers/internal/db"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, input Guider) (Guider, error) {
	if input.Name == "" || input.Phone == "" || input.Age <= 0 {
		return Guider{}, errors.New("name, phone and age required")
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO guiders (id, user_id, name, phone, age, experience)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, input.ID, input.UserID, input.Name, input.Phone, input.Age, input.Experience)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Guider{}, err
	}
	return input, nil
}

func (s *Service) List(ctx context.Context) ([]Guider, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, phone, age, experience, COALESCE(photo_url,''), created_at
		FROM guiders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guiders []Guider
	for rows.Next() {
		var g Guider
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Phone, &g.Age, &g.Experience, &g.PhotoURL, &g.CreatedAt); err != nil {
			return nil, err
		}
		guiders = append(guiders, g)
	}
	return guiders, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM guiders WHERE id=$1`, id)
	return err
}

// SetPhoto records the uploaded object and points the guider at its URL.
// The photo is the only mutable guider field.
func (s *Service) SetPhoto(ctx context.Context, guiderID, fileName string) (string, error) {
	if fileName == "" {
		fileName = "photo"
	}
	url := "https://storage.ledang.example/guiders/" + guiderID + "/" + fileName

	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, owner_id, url, kind)
		VALUES ($1,$2,$3,'guider_photo')
	`, uuid.NewString(), guiderID, url)
	if err != nil {
		return "", err
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE guiders SET photo_url=$2 WHERE id=$1
	`, guiderID, url); err != nil {
		return "", err
	}
	return url, nil
}
