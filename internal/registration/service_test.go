package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clinic-shifts/internal/models"
)

type mockWorkerRepo struct {
	worker    *models.Worker
	chatSet   bool
	fileSet   bool
	setChatOK bool
	setFileOK bool
}

func (m *mockWorkerRepo) ListUnregisteredWorkers(context.Context) ([]*models.Worker, error) {
	return []*models.Worker{m.worker}, nil
}

func (m *mockWorkerRepo) GetWorker(context.Context, int64) (*models.Worker, error) {
	return m.worker, nil
}

func (m *mockWorkerRepo) GetWorkerByChatID(context.Context, string, bool) (*models.Worker, error) {
	return m.worker, nil
}

func (m *mockWorkerRepo) SetWorkerChatID(context.Context, int64, string) (bool, error) {
	m.chatSet = true
	return m.setChatOK, nil
}

func (m *mockWorkerRepo) SetWorkerFileID(context.Context, int64, string) (bool, error) {
	m.fileSet = true
	return m.setFileOK, nil
}

type mockSheetWriter struct {
	calls int
	name  string
	chat  *string
	file  *string
	err   error
}

func (m *mockSheetWriter) UpsertWorkerRegistration(_ context.Context, fullName string, chatID, fileID *string) error {
	m.calls++
	m.name = fullName
	m.chat = chatID
	m.file = fileID
	return m.err
}

func TestSetChatIDMirrorsToSheet(t *testing.T) {
	repo := &mockWorkerRepo{worker: &models.Worker{ID: 1, FullName: "Анна Смирнова"}, setChatOK: true}
	sheet := &mockSheetWriter{}
	svc := NewService(repo, sheet, zap.NewNop())

	ok, err := svc.SetChatID(t.Context(), 1, "100")
	require.NoError(t, err)
	assert.True(t, ok)

	require.Equal(t, 1, sheet.calls)
	assert.Equal(t, "Анна Смирнова", sheet.name)
	require.NotNil(t, sheet.chat)
	assert.Equal(t, "100", *sheet.chat)
	assert.Nil(t, sheet.file)
}

func TestSetChatIDWriteOnceSkipsMirror(t *testing.T) {
	repo := &mockWorkerRepo{worker: &models.Worker{ID: 1, FullName: "Анна Смирнова", ChatID: "100"}, setChatOK: false}
	sheet := &mockSheetWriter{}
	svc := NewService(repo, sheet, zap.NewNop())

	ok, err := svc.SetChatID(t.Context(), 1, "200")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, sheet.calls)
}

func TestSetPhotoSheetFailureIsNotFatal(t *testing.T) {
	repo := &mockWorkerRepo{worker: &models.Worker{ID: 1, FullName: "Анна Смирнова"}, setFileOK: true}
	sheet := &mockSheetWriter{err: errors.New("sheet unreachable")}
	svc := NewService(repo, sheet, zap.NewNop())

	ok, err := svc.SetPhoto(t.Context(), 1, "photo-1")
	require.NoError(t, err, "database write succeeded; mirror failure stays internal")
	assert.True(t, ok)
	assert.Equal(t, 1, sheet.calls)
}

func TestSetPhotoWithoutSheetWriter(t *testing.T) {
	repo := &mockWorkerRepo{worker: &models.Worker{ID: 1, FullName: "Анна Смирнова"}, setFileOK: true}
	svc := NewService(repo, nil, zap.NewNop())

	ok, err := svc.SetPhoto(t.Context(), 1, "photo-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
