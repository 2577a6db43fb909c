package shifts

import (
	"context"

	"clinic-shifts/internal/models"
)

// ShiftStore is the persistence contract the assignment engine needs. The
// claim is conditional at the store: it must succeed only while the slot is
// still open, in a single statement, so concurrent claims on one shift id
// produce exactly one success.
type ShiftStore interface {
	ListShiftsByDate(ctx context.Context, date string) ([]*models.Shift, error)
	GetShift(ctx context.Context, id int64) (*models.Shift, error)
	GetShiftForAssistant(ctx context.Context, workerID int64, date, shiftType string) (*models.Shift, error)
	ClaimShift(ctx context.Context, workerID int64, workerName string, shiftID int64) (bool, error)
	AddManualShift(ctx context.Context, assistantID int64, assistantName, doctorName, shiftType, date string) (bool, error)
	ReleaseAssistant(ctx context.Context, workerID int64, date, shiftType string) error
}

// WorkerStore resolves callers and doctors upstream of the engine.
type WorkerStore interface {
	ListWorkers(ctx context.Context, includeInactive bool) ([]*models.Worker, error)
	GetWorker(ctx context.Context, id int64) (*models.Worker, error)
	GetWorkerByChatID(ctx context.Context, chatID string, includeInactive bool) (*models.Worker, error)
}
