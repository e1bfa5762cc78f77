package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Company is one beneficiary organization.
type Company struct {
	ID        string
	Name      string
	Address   string
	Contact   string
	CreatedAt time.Time
}

// CreateCompany inserts one company and returns it with its generated ID.
func (s *Store) CreateCompany(ctx context.Context, company Company) (Company, error) {
	if err := s.ready(); err != nil {
		return Company{}, err
	}
	company.Name = strings.TrimSpace(company.Name)
	if company.Name == "" {
		return Company{}, fmt.Errorf("company name is required")
	}
	company.ID = newID()
	company.CreatedAt = time.Now().UTC()

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO companies (id, name, address, contact, created_ms) VALUES (?, ?, ?, ?, ?)`,
		company.ID, company.Name, company.Address, company.Contact, toMillis(company.CreatedAt))
	if err != nil {
		return Company{}, mapConstraint(err)
	}
	return company, nil
}

// GetCompany fetches one company by ID.
func (s *Store) GetCompany(ctx context.Context, id string) (Company, error) {
	if err := s.ready(); err != nil {
		return Company{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, address, contact, created_ms FROM companies WHERE id = ?`, id)

	var c Company
	var createdMs int64
	if err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Contact, &createdMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrNotFound
		}
		return Company{}, fmt.Errorf("scan company: %w", err)
	}
	c.CreatedAt = fromMillis(createdMs)
	return c, nil
}

// ListCompanies returns all companies ordered by name.
func (s *Store) ListCompanies(ctx context.Context) ([]Company, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, address, contact, created_ms FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Company
	for rows.Next() {
		var c Company
		var createdMs int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Contact, &createdMs); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		c.CreatedAt = fromMillis(createdMs)
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCompany updates a company's mutable fields.
func (s *Store) UpdateCompany(ctx context.Context, company Company) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE companies SET name = ?, address = ?, contact = ? WHERE id = ?`,
		strings.TrimSpace(company.Name), company.Address, company.Contact, company.ID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

// DeleteCompany removes one company by ID.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return requireAffected(res)
}

// requireAffected maps a zero-row write to ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
