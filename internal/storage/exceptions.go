package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
)

// SaveCalendarException adds or replaces the exception for a date.
func (s *SQLiteStorage) SaveCalendarException(ctx context.Context, ex *model.CalendarException) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateException(ex); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_exceptions (date, kind, reason)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			kind = excluded.kind,
			reason = excluded.reason
	`, ex.Date.String(), string(ex.Kind), strings.TrimSpace(ex.Reason))
	if err != nil {
		return fmt.Errorf("failed to save calendar exception: %w", err)
	}
	return nil
}

// DeleteCalendarException removes the exception for date.
func (s *SQLiteStorage) DeleteCalendarException(ctx context.Context, date model.Date) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDate(date, "date"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM calendar_exceptions WHERE date = ?`, date.String())
	if err != nil {
		return fmt.Errorf("failed to delete calendar exception: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: calendar exception on %s", common.ErrNotFound, date)
	}
	return nil
}

// ListCalendarExceptions returns all exceptions in date order.
func (s *SQLiteStorage) ListCalendarExceptions(ctx context.Context) ([]model.CalendarException, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT date, kind, reason FROM calendar_exceptions ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar exceptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var exceptions []model.CalendarException
	for rows.Next() {
		var (
			ex   model.CalendarException
			date string
			kind string
		)
		if err := rows.Scan(&date, &kind, &ex.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan calendar exception: %w", err)
		}
		if ex.Date, err = model.ParseDate(date); err != nil {
			return nil, fmt.Errorf("stored calendar exception: %w", err)
		}
		ex.Kind = model.ExceptionKind(kind)
		exceptions = append(exceptions, ex)
	}
	return exceptions, rows.Err()
}
