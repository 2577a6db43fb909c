package reconcile

import (
	"context"

	"clinic-shifts/internal/models"
)

// Source reads snapshot rows from the external tabular source. The header
// row is already stripped.
type Source interface {
	ReadWorkers(ctx context.Context) ([][]string, error)
	ReadPairs(ctx context.Context) ([][]string, error)
	ReadSurveys(ctx context.Context) ([][]string, error)
	ReadShifts(ctx context.Context) ([][]string, error)
}

// WorkerRepo is the slice of worker persistence the engine needs.
type WorkerRepo interface {
	ListWorkers(ctx context.Context, includeInactive bool) ([]*models.Worker, error)
	AddWorker(ctx context.Context, w *models.Worker) (int64, error)
	SetWorkerActive(ctx context.Context, id int64, active bool) error
	SetWorkerChatID(ctx context.Context, id int64, chatID string) (bool, error)
	SetWorkerFileID(ctx context.Context, id int64, fileID string) (bool, error)
}

// PairRepo persists questionnaire pairings.
type PairRepo interface {
	AddPair(ctx context.Context, p *models.Pair) error
	DeletePairsByDate(ctx context.Context, date string) error
}

// SurveyRepo persists survey definitions.
type SurveyRepo interface {
	ClearSurveys(ctx context.Context) error
	AddSurvey(ctx context.Context, s *models.Survey) error
}

// ShiftRepo persists roster shifts.
type ShiftRepo interface {
	BulkInsertShifts(ctx context.Context, shifts []*models.Shift) error
	DeleteOpenRosterShifts(ctx context.Context, dates []string) error
}
