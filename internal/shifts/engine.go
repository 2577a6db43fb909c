// Package shifts lets a worker claim exactly one open shift per date+type.
// Occupancy is the only invariant the engine enforces; the claim window is
// the caller's policy.
package shifts

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"clinic-shifts/internal/clock"
	"clinic-shifts/internal/models"
)

// preferredMarker prefixes slot labels whose planned assistant matches the
// caller's own name.
const preferredMarker = "⭐ "

// FreeSlot is one claimable shift as shown to the caller.
type FreeSlot struct {
	ShiftID int64  `json:"shift_id"`
	Label   string `json:"label"`
}

// Engine exposes slot discovery, the atomic claim, the manual-shift
// fallback and release.
type Engine struct {
	shifts  ShiftStore
	workers WorkerStore
	clk     clock.Clock
	log     *zap.Logger
}

func NewEngine(shifts ShiftStore, workers WorkerStore, clk clock.Clock, log *zap.Logger) *Engine {
	return &Engine{shifts: shifts, workers: workers, clk: clk, log: log}
}

// DetectShiftType maps an hour of day onto the claimable shift window:
// 08-14 morning, 14-20 evening, otherwise empty.
func DetectShiftType(hour int) string {
	switch {
	case hour >= 8 && hour < 14:
		return models.ShiftMorning
	case hour >= 14 && hour < 20:
		return models.ShiftEvening
	default:
		return ""
	}
}

// CurrentWindow resolves "now" into (shift type, DD.MM.YYYY date). The
// type is empty outside the claimable window.
func (e *Engine) CurrentWindow() (string, string) {
	now := e.clk.Now()
	return DetectShiftType(now.Hour()), now.Format(clock.DateLayout)
}

// ListFreeShifts returns open slots for date+type, preferred-name matches
// first, then doctors alphabetically, then id. Read-only: listing never
// blocks a concurrent claim.
func (e *Engine) ListFreeShifts(ctx context.Context, date, shiftType, preferredName string) ([]FreeSlot, error) {
	all, err := e.shifts.ListShiftsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list free shifts: %w", err)
	}

	preferred := strings.ToLower(strings.TrimSpace(preferredName))
	isPreferred := func(sh *models.Shift) bool {
		if preferred == "" || sh.ScheduledAssistantName == "" {
			return false
		}
		return strings.ToLower(strings.TrimSpace(sh.ScheduledAssistantName)) == preferred
	}

	var open []*models.Shift
	for _, sh := range all {
		if sh.Type == shiftType && sh.Open() {
			open = append(open, sh)
		}
	}

	sort.SliceStable(open, func(i, j int) bool {
		pi, pj := 1, 1
		if isPreferred(open[i]) {
			pi = 0
		}
		if isPreferred(open[j]) {
			pj = 0
		}
		if pi != pj {
			return pi < pj
		}
		ni := strings.ToLower(strings.TrimSpace(open[i].DoctorName))
		nj := strings.ToLower(strings.TrimSpace(open[j].DoctorName))
		if ni != nj {
			return ni < nj
		}
		return open[i].ID < open[j].ID
	})

	slots := make([]FreeSlot, 0, len(open))
	for _, sh := range open {
		label := sh.DoctorName
		if isPreferred(sh) {
			label = preferredMarker + label
		}
		slots = append(slots, FreeSlot{ShiftID: sh.ID, Label: label})
	}
	return slots, nil
}

// ListDoctorShifts returns the doctor's slots for date+type regardless of
// occupancy. Callers use it to pick between direct claim, conflict
// confirmation and the manual-shift path.
func (e *Engine) ListDoctorShifts(ctx context.Context, date, shiftType, doctorName string) ([]*models.Shift, error) {
	all, err := e.shifts.ListShiftsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list doctor shifts: %w", err)
	}
	want := strings.ToLower(strings.TrimSpace(doctorName))
	var out []*models.Shift
	for _, sh := range all {
		if sh.Type == shiftType && strings.ToLower(strings.TrimSpace(sh.DoctorName)) == want {
			out = append(out, sh)
		}
	}
	return out, nil
}

// ClaimShift assigns the worker to the shift iff the slot is still open at
// commit time. False covers both "already taken" and "no such shift" —
// expected outcomes, not errors.
func (e *Engine) ClaimShift(ctx context.Context, workerID int64, workerName string, shiftID int64) (bool, error) {
	claimed, err := e.shifts.ClaimShift(ctx, workerID, workerName, shiftID)
	if err != nil {
		return false, err
	}
	if claimed {
		e.log.Info("shift claimed", zap.Int64("shift_id", shiftID), zap.Int64("worker_id", workerID))
	} else {
		e.log.Info("claim rejected", zap.Int64("shift_id", shiftID), zap.Int64("worker_id", workerID))
	}
	return claimed, nil
}

// AddManualShift creates an ad hoc shift born occupied, for doctors absent
// from the roster.
func (e *Engine) AddManualShift(ctx context.Context, assistantID int64, assistantName, doctorName, shiftType, date string) (bool, error) {
	ok, err := e.shifts.AddManualShift(ctx, assistantID, assistantName, doctorName, shiftType, date)
	if err != nil {
		return false, err
	}
	if ok {
		e.log.Info("manual shift created",
			zap.String("doctor", doctorName), zap.Int64("worker_id", assistantID),
			zap.String("date", date), zap.String("type", shiftType))
	}
	return ok, nil
}

// RemoveAssistant releases the worker's slot(s) for date+type; released
// slots show up in ListFreeShifts again.
func (e *Engine) RemoveAssistant(ctx context.Context, assistantID int64, date, shiftType string) error {
	if err := e.shifts.ReleaseAssistant(ctx, assistantID, date, shiftType); err != nil {
		return fmt.Errorf("remove assistant: %w", err)
	}
	e.log.Info("shift released", zap.Int64("worker_id", assistantID), zap.String("date", date), zap.String("type", shiftType))
	return nil
}

// CurrentShift returns the worker's occupied slot for date+type, nil when
// none.
func (e *Engine) CurrentShift(ctx context.Context, workerID int64, date, shiftType string) (*models.Shift, error) {
	return e.shifts.GetShiftForAssistant(ctx, workerID, date, shiftType)
}

// GetShift fetches one shift by id; nil when absent.
func (e *Engine) GetShift(ctx context.Context, shiftID int64) (*models.Shift, error) {
	return e.shifts.GetShift(ctx, shiftID)
}

// GetWorker resolves a worker by id; nil when absent.
func (e *Engine) GetWorker(ctx context.Context, workerID int64) (*models.Worker, error) {
	return e.workers.GetWorker(ctx, workerID)
}

// ListDoctors returns the active roster for the "show all doctors" path.
func (e *Engine) ListDoctors(ctx context.Context) ([]*models.Worker, error) {
	return e.workers.ListWorkers(ctx, false)
}
