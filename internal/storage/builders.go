package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
)

// CreateBuilder inserts a new builder. An empty ID is filled with a UUID and
// an empty CreatedAt with the current time; both are written back to b.
func (s *SQLiteStorage) CreateBuilder(ctx context.Context, b *model.Builder) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBuilder(b); err != nil {
		return err
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now().UTC()
	}
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO builders (id, name, email, cohort, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.Name, b.Email, b.Cohort, b.Active, b.CreatedAt)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: builder %s", common.ErrDuplicateEntry, b.ID)
		}
		return fmt.Errorf("failed to create builder: %w", err)
	}

	return nil
}

// GetBuilder retrieves a builder by ID.
func (s *SQLiteStorage) GetBuilder(ctx context.Context, id string) (*model.Builder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, cohort, active, created_at
		FROM builders
		WHERE id = ?
	`, id)

	b, err := scanBuilder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: builder %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get builder: %w", err)
	}
	return b, nil
}

// ListBuilders returns builders ordered by name.
func (s *SQLiteStorage) ListBuilders(ctx context.Context, activeOnly bool) ([]model.Builder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT id, name, email, cohort, active, created_at FROM builders`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list builders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var builders []model.Builder
	for rows.Next() {
		b, err := scanBuilder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan builder: %w", err)
		}
		builders = append(builders, *b)
	}
	return builders, rows.Err()
}

// SetBuilderActive toggles whether a builder is tracked.
func (s *SQLiteStorage) SetBuilderActive(ctx context.Context, id string, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE builders SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update builder: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: builder %s", common.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuilder(row rowScanner) (*model.Builder, error) {
	var b model.Builder
	if err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Cohort, &b.Active, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func isForeignKeyError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
