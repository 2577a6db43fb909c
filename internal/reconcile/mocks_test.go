package reconcile

import (
	"context"

	"clinic-shifts/internal/models"
)

type mockSource struct {
	ReadWorkersFunc func(ctx context.Context) ([][]string, error)
	ReadPairsFunc   func(ctx context.Context) ([][]string, error)
	ReadSurveysFunc func(ctx context.Context) ([][]string, error)
	ReadShiftsFunc  func(ctx context.Context) ([][]string, error)
}

func (m *mockSource) ReadWorkers(ctx context.Context) ([][]string, error) {
	return m.ReadWorkersFunc(ctx)
}

func (m *mockSource) ReadPairs(ctx context.Context) ([][]string, error) {
	return m.ReadPairsFunc(ctx)
}

func (m *mockSource) ReadSurveys(ctx context.Context) ([][]string, error) {
	return m.ReadSurveysFunc(ctx)
}

func (m *mockSource) ReadShifts(ctx context.Context) ([][]string, error) {
	return m.ReadShiftsFunc(ctx)
}

// memWorkerRepo is a stateful in-memory worker repository that counts
// mutations, so idempotence tests can assert "no churn on second run".
type memWorkerRepo struct {
	workers []*models.Worker
	nextID  int64

	activeCalls int
	chatCalls   int
	fileCalls   int
}

func (m *memWorkerRepo) ListWorkers(_ context.Context, includeInactive bool) ([]*models.Worker, error) {
	var out []*models.Worker
	for _, w := range m.workers {
		if !includeInactive && !w.IsActive {
			continue
		}
		copied := *w
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memWorkerRepo) AddWorker(_ context.Context, w *models.Worker) (int64, error) {
	m.nextID++
	copied := *w
	copied.ID = m.nextID
	m.workers = append(m.workers, &copied)
	return copied.ID, nil
}

func (m *memWorkerRepo) find(id int64) *models.Worker {
	for _, w := range m.workers {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (m *memWorkerRepo) SetWorkerActive(_ context.Context, id int64, active bool) error {
	m.activeCalls++
	if w := m.find(id); w != nil {
		w.IsActive = active
	}
	return nil
}

func (m *memWorkerRepo) SetWorkerChatID(_ context.Context, id int64, chatID string) (bool, error) {
	m.chatCalls++
	if w := m.find(id); w != nil && w.ChatID == "" {
		w.ChatID = chatID
		return true, nil
	}
	return false, nil
}

func (m *memWorkerRepo) SetWorkerFileID(_ context.Context, id int64, fileID string) (bool, error) {
	m.fileCalls++
	if w := m.find(id); w != nil && w.FileID == "" {
		w.FileID = fileID
		return true, nil
	}
	return false, nil
}

type memPairRepo struct {
	pairs []*models.Pair
}

func (m *memPairRepo) AddPair(_ context.Context, p *models.Pair) error {
	copied := *p
	m.pairs = append(m.pairs, &copied)
	return nil
}

func (m *memPairRepo) DeletePairsByDate(_ context.Context, date string) error {
	kept := m.pairs[:0]
	for _, p := range m.pairs {
		if p.Date != date {
			kept = append(kept, p)
		}
	}
	m.pairs = kept
	return nil
}

type memSurveyRepo struct {
	surveys map[int64]*models.Survey
}

func newMemSurveyRepo() *memSurveyRepo {
	return &memSurveyRepo{surveys: make(map[int64]*models.Survey)}
}

func (m *memSurveyRepo) ClearSurveys(context.Context) error {
	m.surveys = make(map[int64]*models.Survey)
	return nil
}

func (m *memSurveyRepo) AddSurvey(_ context.Context, s *models.Survey) error {
	copied := *s
	m.surveys[s.ID] = &copied
	return nil
}

type memShiftRepo struct {
	shifts  []*models.Shift
	nextID  int64
	deletes [][]string
}

func (m *memShiftRepo) BulkInsertShifts(_ context.Context, shifts []*models.Shift) error {
	for _, sh := range shifts {
		m.nextID++
		copied := *sh
		copied.ID = m.nextID
		m.shifts = append(m.shifts, &copied)
	}
	return nil
}

func (m *memShiftRepo) DeleteOpenRosterShifts(_ context.Context, dates []string) error {
	m.deletes = append(m.deletes, dates)
	match := make(map[string]bool, len(dates))
	for _, d := range dates {
		match[d] = true
	}
	kept := m.shifts[:0]
	for _, sh := range m.shifts {
		if match[sh.Date] && sh.AssistantID == nil && !sh.Manual {
			continue
		}
		kept = append(kept, sh)
	}
	m.shifts = kept
	return nil
}
