package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Document categories.
const (
	CategoryAttestation = "attestation"
	CategoryConvention  = "convention"
)

// Document indexes one generated artifact.
type Document struct {
	ID          string
	SessionID   string
	Category    string
	FileName    string
	GeneratedAt time.Time
}

// RecordDocument indexes one generated artifact and returns it with its ID.
func (s *Store) RecordDocument(ctx context.Context, doc Document) (Document, error) {
	if err := s.ready(); err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(doc.SessionID) == "" {
		return Document{}, fmt.Errorf("session id is required")
	}
	if doc.Category != CategoryAttestation && doc.Category != CategoryConvention {
		return Document{}, fmt.Errorf("unknown document category %q", doc.Category)
	}
	doc.ID = newID()
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO documents (id, session_id, category, file_name, generated_ms) VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.SessionID, doc.Category, doc.FileName, toMillis(doc.GeneratedAt))
	if err != nil {
		return Document{}, mapConstraint(err)
	}
	return doc, nil
}

// ListDocuments returns the documents recorded for one session and
// category, newest first.
func (s *Store) ListDocuments(ctx context.Context, sessionID, category string) ([]Document, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, session_id, category, file_name, generated_ms
		 FROM documents WHERE session_id = ? AND category = ?
		 ORDER BY generated_ms DESC`, sessionID, category)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Document
	for rows.Next() {
		var d Document
		var generatedMs int64
		if err := rows.Scan(&d.ID, &d.SessionID, &d.Category, &d.FileName, &generatedMs); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.GeneratedAt = fromMillis(generatedMs)
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDocument fetches one document record by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (Document, error) {
	if err := s.ready(); err != nil {
		return Document{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, session_id, category, file_name, generated_ms FROM documents WHERE id = ?`, id)

	var d Document
	var generatedMs int64
	if err := row.Scan(&d.ID, &d.SessionID, &d.Category, &d.FileName, &generatedMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("scan document: %w", err)
	}
	d.GeneratedAt = fromMillis(generatedMs)
	return d, nil
}

// DeleteDocument removes one document record by ID.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return requireAffected(res)
}
