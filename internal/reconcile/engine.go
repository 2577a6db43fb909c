// Package reconcile merges external snapshot rows into persisted state.
// Each entity has its own merge policy: workers diff-merge with soft
// deactivation, pairs and shifts are rebuilt per date, surveys are fully
// replaced.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"clinic-shifts/internal/clock"
	"clinic-shifts/internal/models"
)

// Engine pulls rows from the source and applies them to the repositories.
// Every sync entry point is single-flighted: concurrent triggers of the
// same sync coalesce into one run instead of inserting twice.
type Engine struct {
	src     Source
	workers WorkerRepo
	pairs   PairRepo
	surveys SurveyRepo
	shifts  ShiftRepo
	clk     clock.Clock
	log     *zap.Logger

	group singleflight.Group
}

func NewEngine(src Source, workers WorkerRepo, pairs PairRepo, surveys SurveyRepo, shifts ShiftRepo, clk clock.Clock, log *zap.Logger) *Engine {
	return &Engine{
		src:     src,
		workers: workers,
		pairs:   pairs,
		surveys: surveys,
		shifts:  shifts,
		clk:     clk,
		log:     log,
	}
}

// NormalizeName folds a full name into the natural-key form used to match
// source rows against persisted workers. First match wins when the source
// carries duplicate names.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SyncWorkers merges the roster snapshot into the worker table and returns
// the number of newly created workers. Re-running with an unchanged
// snapshot is a no-op.
func (e *Engine) SyncWorkers(ctx context.Context) (int, error) {
	v, err, _ := e.group.Do("workers", func() (any, error) {
		return e.syncWorkers(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (e *Engine) syncWorkers(ctx context.Context) (int, error) {
	existing, err := e.workers.ListWorkers(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("sync workers: %w", err)
	}
	byName := make(map[string]*models.Worker, len(existing))
	for _, w := range existing {
		if w.FullName == "" {
			continue
		}
		if _, dup := byName[NormalizeName(w.FullName)]; !dup {
			byName[NormalizeName(w.FullName)] = w
		}
	}

	rows, err := e.src.ReadWorkers(ctx)
	if err != nil {
		return 0, fmt.Errorf("sync workers: %w", err)
	}

	created := 0
	seen := make(map[string]bool)
	for i, row := range rows {
		rec, skip := decodeWorkerRow(row)
		if skip != "" {
			e.log.Debug("skipping worker row", zap.Int("row", i), zap.String("reason", skip))
			continue
		}
		key := NormalizeName(rec.FullName)
		seen[key] = true

		w, ok := byName[key]
		if !ok {
			id, err := e.workers.AddWorker(ctx, &models.Worker{
				FullName:   rec.FullName,
				FileID:     rec.FileID,
				ChatID:     rec.ChatID,
				Speciality: rec.Speciality,
				Phone:      rec.Phone,
				IsActive:   true,
			})
			if err != nil {
				return created, fmt.Errorf("sync workers: %w", err)
			}
			byName[key] = &models.Worker{ID: id, FullName: rec.FullName, FileID: rec.FileID, ChatID: rec.ChatID, IsActive: true}
			created++
			continue
		}

		if !w.IsActive {
			if err := e.workers.SetWorkerActive(ctx, w.ID, true); err != nil {
				return created, fmt.Errorf("sync workers: %w", err)
			}
			w.IsActive = true
		}
		// chat_id and file_id are write-once: fill only when empty.
		if rec.ChatID != "" && w.ChatID == "" {
			if _, err := e.workers.SetWorkerChatID(ctx, w.ID, rec.ChatID); err != nil {
				return created, fmt.Errorf("sync workers: %w", err)
			}
			w.ChatID = rec.ChatID
		}
		if rec.FileID != "" && w.FileID == "" {
			if _, err := e.workers.SetWorkerFileID(ctx, w.ID, rec.FileID); err != nil {
				return created, fmt.Errorf("sync workers: %w", err)
			}
			w.FileID = rec.FileID
		}
	}

	for key, w := range byName {
		if seen[key] || !w.IsActive {
			continue
		}
		if err := e.workers.SetWorkerActive(ctx, w.ID, false); err != nil {
			return created, fmt.Errorf("sync workers: %w", err)
		}
	}

	e.log.Info("worker sync complete", zap.Int("created", created), zap.Int("rows", len(rows)))
	return created, nil
}

// SyncPairs rebuilds the questionnaire pairings for one date (today when
// date is empty) and returns the number inserted. The date's previous
// pairs are cleared first so re-runs do not duplicate.
func (e *Engine) SyncPairs(ctx context.Context, date string) (int, error) {
	v, err, _ := e.group.Do("pairs", func() (any, error) {
		return e.syncPairs(ctx, date)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (e *Engine) syncPairs(ctx context.Context, date string) (int, error) {
	if date == "" {
		date = clock.Today(e.clk)
	}
	rows, err := e.src.ReadPairs(ctx)
	if err != nil {
		return 0, fmt.Errorf("sync pairs: %w", err)
	}
	if err := e.pairs.DeletePairsByDate(ctx, date); err != nil {
		return 0, fmt.Errorf("sync pairs: %w", err)
	}

	created := 0
	for i, row := range rows {
		p, skip := decodePairRow(row, date)
		if skip != "" {
			e.log.Debug("skipping pair row", zap.Int("row", i), zap.String("reason", skip))
			continue
		}
		if err := e.pairs.AddPair(ctx, p); err != nil {
			return created, fmt.Errorf("sync pairs: %w", err)
		}
		created++
	}

	e.log.Info("pair sync complete", zap.String("date", date), zap.Int("created", created))
	return created, nil
}

// SyncSurveys replaces the persisted survey set with the snapshot's valid
// rows and returns the number inserted.
func (e *Engine) SyncSurveys(ctx context.Context) (int, error) {
	v, err, _ := e.group.Do("surveys", func() (any, error) {
		return e.syncSurveys(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (e *Engine) syncSurveys(ctx context.Context) (int, error) {
	rows, err := e.src.ReadSurveys(ctx)
	if err != nil {
		return 0, fmt.Errorf("sync surveys: %w", err)
	}
	if err := e.surveys.ClearSurveys(ctx); err != nil {
		return 0, fmt.Errorf("sync surveys: %w", err)
	}

	created := 0
	for i, row := range rows {
		s, skip := decodeSurveyRow(row)
		if skip != "" {
			e.log.Debug("skipping survey row", zap.Int("row", i), zap.String("reason", skip))
			continue
		}
		if err := e.surveys.AddSurvey(ctx, s); err != nil {
			return created, fmt.Errorf("sync surveys: %w", err)
		}
		created++
	}

	e.log.Info("survey sync complete", zap.Int("created", created))
	return created, nil
}

// SyncShifts decodes the schedule snapshot into open slots and bulk-inserts
// them. Unclaimed non-manual shifts for the snapshot's dates are dropped
// first, so reconciliation can re-run without duplicating slots; claimed
// and manual shifts are never touched.
func (e *Engine) SyncShifts(ctx context.Context) (int, error) {
	v, err, _ := e.group.Do("shifts", func() (any, error) {
		return e.syncShifts(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (e *Engine) syncShifts(ctx context.Context) (int, error) {
	rows, err := e.src.ReadShifts(ctx)
	if err != nil {
		return 0, fmt.Errorf("sync shifts: %w", err)
	}

	var (
		schedule []*models.Shift
		dates    []string
		dateSeen = make(map[string]bool)
	)
	for i, row := range rows {
		sh, skip := decodeShiftRow(row)
		if skip != "" {
			e.log.Debug("skipping shift row", zap.Int("row", i), zap.String("reason", skip))
			continue
		}
		schedule = append(schedule, sh)
		if !dateSeen[sh.Date] {
			dateSeen[sh.Date] = true
			dates = append(dates, sh.Date)
		}
	}
	if len(schedule) == 0 {
		return 0, nil
	}

	if err := e.shifts.DeleteOpenRosterShifts(ctx, dates); err != nil {
		return 0, fmt.Errorf("sync shifts: %w", err)
	}
	if err := e.shifts.BulkInsertShifts(ctx, schedule); err != nil {
		return 0, fmt.Errorf("sync shifts: %w", err)
	}

	e.log.Info("shift sync complete", zap.Int("inserted", len(schedule)), zap.Strings("dates", dates))
	return len(schedule), nil
}

// SyncAll runs every sync in order: workers, pairs, surveys, shifts. The
// first failure aborts the remainder; earlier commits stay (at-least-once
// model).
func (e *Engine) SyncAll(ctx context.Context) error {
	if _, err := e.SyncWorkers(ctx); err != nil {
		return err
	}
	if _, err := e.SyncPairs(ctx, ""); err != nil {
		return err
	}
	if _, err := e.SyncSurveys(ctx); err != nil {
		return err
	}
	if _, err := e.SyncShifts(ctx); err != nil {
		return err
	}
	return nil
}
