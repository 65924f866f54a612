package hiker

import (
	"context"
	"errors"

	"github.com/dn1a1/ledang-hikers/internal/db"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (Hiker, error) {
	if input.Name == "" || input.IC == "" || input.Phone == "" || input.EmergencyContact == "" {
		return Hiker{}, errors.New("name, ic, phone and emergency_contact required")
	}

	h := Hiker{
		Name:             input.Name,
		IC:               input.IC,
		Phone:            input.Phone,
		EmergencyContact: input.EmergencyContact,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO hikers (name, ic, phone, emergency_contact)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`, h.Name, h.IC, h.Phone, h.EmergencyContact)
	if err := row.Scan(&h.ID, &h.CreatedAt); err != nil {
		return Hiker{}, err
	}
	return h, nil
}

func (s *Service) List(ctx context.Context, search string) ([]Hiker, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, ic, phone, emergency_contact, created_at
		FROM hikers
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hikers []Hiker
	for rows.Next() {
		var h Hiker
		if err := rows.Scan(&h.ID, &h.Name, &h.IC, &h.Phone, &h.EmergencyContact, &h.CreatedAt); err != nil {
			return nil, err
		}
		hikers = append(hikers, h)
	}
	return hikers, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch Hiker) (Hiker, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return Hiker{}, err
	}
	if patch.Name != "" {
		h.Name = patch.Name
	}
	if patch.IC != "" {
		h.IC = patch.IC
	}
	if patch.Phone != "" {
		h.Phone = patch.Phone
	}
	if patch.EmergencyContact != "" {
		h.EmergencyContact = patch.EmergencyContact
	}

	_, err = s.db.Exec(ctx, `
		UPDATE hikers SET name=$2, ic=$3, phone=$4, emergency_contact=$5 WHERE id=$1
	`, h.ID, h.Name, h.IC, h.Phone, h.EmergencyContact)
	if err != nil {
		return Hiker{}, err
	}
	return h, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Hiker, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, ic, phone, emergency_contact, created_at
		FROM hikers WHERE id=$1
	`, id)
	var h Hiker
	if err := row.Scan(&h.ID, &h.Name, &h.IC, &h.Phone, &h.EmergencyContact, &h.CreatedAt); err != nil {
		return Hiker{}, err
	}
	return h, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM hikers WHERE id=$1`, id)
	return err
}
