// Package registration links workers to their external contact handle and
// photo. Both fields are write-once; successful writes are mirrored to the
// roster sheet best-effort.
package registration

import (
	"context"

	"go.uber.org/zap"

	"clinic-shifts/internal/models"
)

// WorkerRepo is the slice of worker persistence registration needs.
type WorkerRepo interface {
	ListUnregisteredWorkers(ctx context.Context) ([]*models.Worker, error)
	GetWorker(ctx context.Context, id int64) (*models.Worker, error)
	GetWorkerByChatID(ctx context.Context, chatID string, includeInactive bool) (*models.Worker, error)
	SetWorkerChatID(ctx context.Context, id int64, chatID string) (bool, error)
	SetWorkerFileID(ctx context.Context, id int64, fileID string) (bool, error)
}

// SheetWriter mirrors registration data back to the roster sheet.
type SheetWriter interface {
	UpsertWorkerRegistration(ctx context.Context, fullName string, chatID, fileID *string) error
}

// Service performs worker registration. The sheet writer is optional; a
// nil writer disables mirroring.
type Service struct {
	workers WorkerRepo
	sheet   SheetWriter
	log     *zap.Logger
}

func NewService(workers WorkerRepo, sheet SheetWriter, log *zap.Logger) *Service {
	return &Service{workers: workers, sheet: sheet, log: log}
}

// ListUnregistered returns active workers without a chat id.
func (s *Service) ListUnregistered(ctx context.Context) ([]*models.Worker, error) {
	return s.workers.ListUnregisteredWorkers(ctx)
}

// SetChatID links a worker to a contact handle. Returns false when the
// handle was already set (write-once).
func (s *Service) SetChatID(ctx context.Context, workerID int64, chatID string) (bool, error) {
	ok, err := s.workers.SetWorkerChatID(ctx, workerID, chatID)
	if err != nil || !ok {
		return ok, err
	}
	s.mirror(ctx, workerID, &chatID, nil)
	return true, nil
}

// SetPhoto stores the worker's photo reference if not set yet.
func (s *Service) SetPhoto(ctx context.Context, workerID int64, fileID string) (bool, error) {
	ok, err := s.workers.SetWorkerFileID(ctx, workerID, fileID)
	if err != nil || !ok {
		return ok, err
	}
	s.mirror(ctx, workerID, nil, &fileID)
	return true, nil
}

// mirror pushes the change to the roster sheet. Failures are logged, never
// surfaced: the database is the system of record here.
func (s *Service) mirror(ctx context.Context, workerID int64, chatID, fileID *string) {
	if s.sheet == nil {
		return
	}
	w, err := s.workers.GetWorker(ctx, workerID)
	if err != nil || w == nil {
		s.log.Warn("registration mirror: worker lookup failed", zap.Int64("worker_id", workerID), zap.Error(err))
		return
	}
	if err := s.sheet.UpsertWorkerRegistration(ctx, w.FullName, chatID, fileID); err != nil {
		s.log.Warn("registration mirror: sheet upsert failed", zap.String("worker", w.FullName), zap.Error(err))
	}
}

// GetByChatID resolves a contact handle to a worker; nil when unknown.
func (s *Service) GetByChatID(ctx context.Context, chatID string, includeInactive bool) (*models.Worker, error) {
	return s.workers.GetWorkerByChatID(ctx, chatID, includeInactive)
}

// GetByID resolves a worker id; nil when unknown.
func (s *Service) GetByID(ctx context.Context, workerID int64) (*models.Worker, error) {
	return s.workers.GetWorker(ctx, workerID)
}
