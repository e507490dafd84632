package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
	"github.com/Veraticus/builder-tracking/internal/service"
)

// SaveAttendance upserts records keyed by (builder, date). The whole batch is
// validated first and written in one transaction.
func (s *SQLiteStorage) SaveAttendance(ctx context.Context, records []model.AttendanceRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	updatedAt := s.now().UTC()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO attendance (builder_id, date, status, time_recorded, excuse_reason, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(builder_id, date) DO UPDATE SET
				status = excluded.status,
				time_recorded = excluded.time_recorded,
				excuse_reason = excluded.excuse_reason,
				updated_at = excluded.updated_at
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, rec := range records {
			status, _ := model.ParseRawStatus(string(rec.RawStatus))
			if _, err := stmt.ExecContext(ctx,
				rec.BuilderID,
				rec.Date.String(),
				string(status),
				formatTimestamp(rec.TimeRecorded),
				strings.TrimSpace(rec.ExcuseReason),
				updatedAt,
			); err != nil {
				if isForeignKeyError(err) {
					return fmt.Errorf("%w: builder %s", common.ErrNotFound, rec.BuilderID)
				}
				return fmt.Errorf("failed to save attendance for %s on %s: %w", rec.BuilderID, rec.Date, err)
			}
		}
		return nil
	})
	return err
}

// GetAttendance returns records matching filter ordered by date then builder.
func (s *SQLiteStorage) GetAttendance(ctx context.Context, filter service.AttendanceFilter) ([]model.AttendanceRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.Range != nil {
		if err := filter.Range.Validate(); err != nil {
			return nil, err
		}
	}
	return s.getAttendance(ctx, s.db, filter)
}

func (s *SQLiteStorage) getAttendance(ctx context.Context, q queryable, filter service.AttendanceFilter) ([]model.AttendanceRecord, error) {
	var (
		where []string
		args  []any
	)

	if filter.Range != nil {
		where = append(where, "date BETWEEN ? AND ?")
		args = append(args, filter.Range.Start.String(), filter.Range.End.String())
	}
	if len(filter.BuilderIDs) > 0 {
		placeholders := make([]string, len(filter.BuilderIDs))
		for i, id := range filter.BuilderIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		where = append(where, "builder_id IN ("+strings.Join(placeholders, ",")+")")
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := `SELECT builder_id, date, status, time_recorded, excuse_reason FROM attendance`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, builder_id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.AttendanceRecord
	for rows.Next() {
		var (
			rec      model.AttendanceRecord
			date     string
			status   string
			recorded sql.NullString
		)
		if err := rows.Scan(&rec.BuilderID, &date, &status, &recorded, &rec.ExcuseReason); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}

		rec.Date, err = model.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("stored attendance for %s: %w", rec.BuilderID, err)
		}
		// Unknown statuses are passed through; the normalizer reports them.
		rec.RawStatus = model.RawStatus(status)
		rec.TimeRecorded, err = parseTimestamp(recorded)
		if err != nil {
			return nil, fmt.Errorf("stored attendance for %s on %s: %w", rec.BuilderID, date, err)
		}

		records = append(records, rec)
	}
	return records, rows.Err()
}

// CreatePendingRecords inserts a pending row for each builder that has no row
// on date yet. It returns the number of rows created.
func (s *SQLiteStorage) CreatePendingRecords(ctx context.Context, date model.Date, builderIDs []string) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateDate(date, "date"); err != nil {
		return 0, err
	}
	if len(builderIDs) == 0 {
		return 0, nil
	}

	updatedAt := s.now().UTC()
	var created int64

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range builderIDs {
			result, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO attendance (builder_id, date, status, excuse_reason, updated_at)
				VALUES (?, ?, ?, '', ?)
			`, id, date.String(), string(model.StatusPending), updatedAt)
			if err != nil {
				if isForeignKeyError(err) {
					return fmt.Errorf("%w: builder %s", common.ErrNotFound, id)
				}
				return fmt.Errorf("failed to create pending record: %w", err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to check affected rows: %w", err)
			}
			created += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// MarkPendingAbsent turns every pending row on date into an unexcused absence.
func (s *SQLiteStorage) MarkPendingAbsent(ctx context.Context, date model.Date) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateDate(date, "date"); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE attendance
		SET status = ?, updated_at = ?
		WHERE date = ? AND status = ?
	`, string(model.StatusAbsent), s.now().UTC(), date.String(), string(model.StatusPending))
	if err != nil {
		return 0, fmt.Errorf("failed to mark pending records absent: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n, nil
}

func formatTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid time_recorded %q: %w", s.String, err)
	}
	return &t, nil
}
