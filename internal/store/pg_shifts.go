package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"clinic-shifts/internal/models"
)

const shiftColumns = `id, doctor_name, date, type, speciality, cabinet,
	scheduled_assistant_name, assistant_id, assistant_name, manual`

func scanShift(row interface{ Scan(...any) error }) (*models.Shift, error) {
	var (
		sh        models.Shift
		scheduled sql.NullString
		assistant sql.NullInt64
	)
	err := row.Scan(&sh.ID, &sh.DoctorName, &sh.Date, &sh.Type, &sh.Speciality, &sh.Cabinet,
		&scheduled, &assistant, &sh.AssistantName, &sh.Manual)
	if err != nil {
		return nil, err
	}
	sh.ScheduledAssistantName = scheduled.String
	if assistant.Valid {
		id := assistant.Int64
		sh.AssistantID = &id
	}
	return &sh, nil
}

// ListShiftsByDate returns every shift for one DD.MM.YYYY date.
func (s *PostgresStore) ListShiftsByDate(ctx context.Context, date string) ([]*models.Shift, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+shiftColumns+" FROM shifts WHERE date = $1 ORDER BY id", date)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*models.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

// GetShift fetches one shift by id; nil when absent.
func (s *PostgresStore) GetShift(ctx context.Context, id int64) (*models.Shift, error) {
	sh, err := scanShift(s.db.QueryRowContext(ctx,
		"SELECT "+shiftColumns+" FROM shifts WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return sh, err
}

// GetShiftForAssistant returns the worker's occupied shift for date+type,
// nil when the worker holds none.
func (s *PostgresStore) GetShiftForAssistant(ctx context.Context, workerID int64, date, shiftType string) (*models.Shift, error) {
	sh, err := scanShift(s.db.QueryRowContext(ctx,
		"SELECT "+shiftColumns+" FROM shifts WHERE assistant_id = $1 AND date = $2 AND type = $3 LIMIT 1",
		workerID, date, shiftType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return sh, err
}

// ClaimShift is the conditional claim. The WHERE clause carries the
// still-open precondition, so of N concurrent callers exactly one sees an
// affected row. Returns false for both "already occupied" and "no such
// shift".
func (s *PostgresStore) ClaimShift(ctx context.Context, workerID int64, workerName string, shiftID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE shifts SET assistant_id = $1, assistant_name = $2
		 WHERE id = $3 AND assistant_id IS NULL`,
		workerID, workerName, shiftID)
	if err != nil {
		return false, fmt.Errorf("claim shift %d: %w", shiftID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// AddManualShift inserts an ad hoc shift born occupied. A single insert
// has no race window: the row does not pre-exist.
func (s *PostgresStore) AddManualShift(ctx context.Context, assistantID int64, assistantName, doctorName, shiftType, date string) (bool, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shifts (doctor_name, date, type, assistant_id, assistant_name, manual)
		 VALUES ($1, $2, $3, $4, $5, TRUE)`,
		doctorName, date, shiftType, assistantID, assistantName)
	if err != nil {
		return false, fmt.Errorf("add manual shift: %w", err)
	}
	return true, nil
}

// ReleaseAssistant re-opens the worker's slot(s) for date+type. The row
// stays; only occupancy is cleared.
func (s *PostgresStore) ReleaseAssistant(ctx context.Context, workerID int64, date, shiftType string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE shifts SET assistant_id = NULL, assistant_name = ''
		 WHERE assistant_id = $1 AND date = $2 AND type = $3`,
		workerID, date, shiftType)
	return err
}

// BulkInsertShifts inserts roster shifts as open slots in one transaction.
func (s *PostgresStore) BulkInsertShifts(ctx context.Context, shifts []*models.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("bulk insert shifts: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO shifts (doctor_name, date, type, speciality, cabinet, scheduled_assistant_name, manual)
		 VALUES ($1, $2, $3, $4, $5, $6, FALSE)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sh := range shifts {
		var scheduled sql.NullString
		if sh.ScheduledAssistantName != "" {
			scheduled = sql.NullString{String: sh.ScheduledAssistantName, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, sh.DoctorName, sh.Date, sh.Type, sh.Speciality, sh.Cabinet, scheduled); err != nil {
			return fmt.Errorf("bulk insert shifts: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteOpenRosterShifts removes unclaimed, non-manual shifts for the given
// dates so reconciliation can re-run without duplicating slots. Claimed and
// manual shifts are never touched.
func (s *PostgresStore) DeleteOpenRosterShifts(ctx context.Context, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM shifts
		 WHERE date = ANY($1) AND assistant_id IS NULL AND NOT manual`,
		pq.Array(dates))
	return err
}
