package shifts

import (
	"context"
	"sync"

	"clinic-shifts/internal/models"
)

// memShiftStore implements ShiftStore with the same conditional-claim
// contract as the Postgres store: the "still open" check and the write
// happen under one lock, so racing claims serialize exactly like the
// single-statement UPDATE does.
type memShiftStore struct {
	mu     sync.Mutex
	nextID int64
	shifts map[int64]*models.Shift
}

func newMemShiftStore() *memShiftStore {
	return &memShiftStore{shifts: make(map[int64]*models.Shift)}
}

func (m *memShiftStore) insert(sh models.Shift) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	sh.ID = m.nextID
	m.shifts[sh.ID] = &sh
	return sh.ID
}

func (m *memShiftStore) ListShiftsByDate(_ context.Context, date string) ([]*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Shift
	for _, sh := range m.shifts {
		if sh.Date == date {
			copied := *sh
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memShiftStore) GetShift(_ context.Context, id int64) (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sh, ok := m.shifts[id]
	if !ok {
		return nil, nil
	}
	copied := *sh
	return &copied, nil
}

func (m *memShiftStore) GetShiftForAssistant(_ context.Context, workerID int64, date, shiftType string) (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sh := range m.shifts {
		if sh.AssistantID != nil && *sh.AssistantID == workerID && sh.Date == date && sh.Type == shiftType {
			copied := *sh
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memShiftStore) ClaimShift(_ context.Context, workerID int64, workerName string, shiftID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sh, ok := m.shifts[shiftID]
	if !ok || sh.AssistantID != nil {
		return false, nil
	}
	id := workerID
	sh.AssistantID = &id
	sh.AssistantName = workerName
	return true, nil
}

func (m *memShiftStore) AddManualShift(_ context.Context, assistantID int64, assistantName, doctorName, shiftType, date string) (bool, error) {
	id := assistantID
	m.insert(models.Shift{
		DoctorName:    doctorName,
		Date:          date,
		Type:          shiftType,
		AssistantID:   &id,
		AssistantName: assistantName,
		Manual:        true,
	})
	return true, nil
}

func (m *memShiftStore) ReleaseAssistant(_ context.Context, workerID int64, date, shiftType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sh := range m.shifts {
		if sh.AssistantID != nil && *sh.AssistantID == workerID && sh.Date == date && sh.Type == shiftType {
			sh.AssistantID = nil
			sh.AssistantName = ""
		}
	}
	return nil
}

type mockWorkerStore struct {
	ListWorkersFunc       func(ctx context.Context, includeInactive bool) ([]*models.Worker, error)
	GetWorkerFunc         func(ctx context.Context, id int64) (*models.Worker, error)
	GetWorkerByChatIDFunc func(ctx context.Context, chatID string, includeInactive bool) (*models.Worker, error)
}

func (m *mockWorkerStore) ListWorkers(ctx context.Context, includeInactive bool) ([]*models.Worker, error) {
	if m.ListWorkersFunc != nil {
		return m.ListWorkersFunc(ctx, includeInactive)
	}
	return nil, nil
}

func (m *mockWorkerStore) GetWorker(ctx context.Context, id int64) (*models.Worker, error) {
	if m.GetWorkerFunc != nil {
		return m.GetWorkerFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockWorkerStore) GetWorkerByChatID(ctx context.Context, chatID string, includeInactive bool) (*models.Worker, error) {
	if m.GetWorkerByChatIDFunc != nil {
		return m.GetWorkerByChatIDFunc(ctx, chatID, includeInactive)
	}
	return nil, nil
}
