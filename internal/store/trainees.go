package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Trainee is one training participant.
type Trainee struct {
	ID        string
	LastName  string
	FirstName string
	CompanyID string // empty when unaffiliated
	Email     string
	CreatedAt time.Time
}

// CreateTrainee inserts one trainee and returns it with its generated ID.
func (s *Store) CreateTrainee(ctx context.Context, trainee Trainee) (Trainee, error) {
	if err := s.ready(); err != nil {
		return Trainee{}, err
	}
	trainee.LastName = strings.TrimSpace(trainee.LastName)
	if trainee.LastName == "" {
		return Trainee{}, fmt.Errorf("trainee last name is required")
	}
	trainee.ID = newID()
	trainee.CreatedAt = time.Now().UTC()

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO trainees (id, last_name, first_name, company_id, email, created_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		trainee.ID, trainee.LastName, trainee.FirstName, nullable(trainee.CompanyID), trainee.Email, toMillis(trainee.CreatedAt))
	if err != nil {
		return Trainee{}, mapConstraint(err)
	}
	return trainee, nil
}

// GetTrainee fetches one trainee by ID.
func (s *Store) GetTrainee(ctx context.Context, id string) (Trainee, error) {
	if err := s.ready(); err != nil {
		return Trainee{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, last_name, first_name, COALESCE(company_id, ''), email, created_ms FROM trainees WHERE id = ?`, id)
	return scanTrainee(row)
}

// ListTrainees returns all trainees, optionally filtered by company.
func (s *Store) ListTrainees(ctx context.Context, companyID string) ([]Trainee, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := `SELECT id, last_name, first_name, COALESCE(company_id, ''), email, created_ms FROM trainees`
	args := []any{}
	if companyID != "" {
		query += ` WHERE company_id = ?`
		args = append(args, companyID)
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trainees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Trainee
	for rows.Next() {
		t, err := scanTrainee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateTrainee updates a trainee's mutable fields.
func (s *Store) UpdateTrainee(ctx context.Context, trainee Trainee) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE trainees SET last_name = ?, first_name = ?, company_id = ?, email = ? WHERE id = ?`,
		strings.TrimSpace(trainee.LastName), trainee.FirstName, nullable(trainee.CompanyID), trainee.Email, trainee.ID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

// DeleteTrainee removes one trainee by ID.
func (s *Store) DeleteTrainee(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM trainees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trainee: %w", err)
	}
	return requireAffected(res)
}

// scanner covers sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrainee(row scanner) (Trainee, error) {
	var t Trainee
	var createdMs int64
	if err := row.Scan(&t.ID, &t.LastName, &t.FirstName, &t.CompanyID, &t.Email, &createdMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trainee{}, ErrNotFound
		}
		return Trainee{}, fmt.Errorf("scan trainee: %w", err)
	}
	t.CreatedAt = fromMillis(createdMs)
	return t, nil
}

// nullable maps an empty string to NULL for foreign key columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
