package export

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-shifts/internal/clock"
	"clinic-shifts/internal/models"
)

type mockRepos struct {
	answers []*models.Answer
	shifts  []*models.Shift

	answerHeaders []string
	answerRows    [][]string
	shiftHeaders  []string
	shiftRows     [][]string
	shiftDate     string
}

func (m *mockRepos) ListAnswers(context.Context) ([]*models.Answer, error) {
	return m.answers, nil
}

func (m *mockRepos) ListShiftsByDate(_ context.Context, date string) ([]*models.Shift, error) {
	m.shiftDate = date
	return m.shifts, nil
}

func (m *mockRepos) ExportAnswers(_ context.Context, headers []string, rows [][]string) error {
	m.answerHeaders = headers
	m.answerRows = rows
	return nil
}

func (m *mockRepos) ExportShifts(_ context.Context, headers []string, rows [][]string) error {
	m.shiftHeaders = headers
	m.shiftRows = rows
	return nil
}

var testClock = clock.Fixed{Instant: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}

func TestExportAnswers(t *testing.T) {
	m := &mockRepos{answers: []*models.Answer{
		{Object: "Иванов", Subject: "Анна", Survey: "3", SurveyDate: "01.01.2025", Question1: "Как прошла смена?", Answer1: "Хорошо"},
	}}
	engine := NewEngine(m, m, m, testClock)

	require.NoError(t, engine.ExportAnswers(t.Context()))

	require.Len(t, m.answerRows, 1)
	assert.Len(t, m.answerHeaders, 15)
	assert.Equal(t, "Иванов", m.answerRows[0][0])
	assert.Equal(t, "Хорошо", m.answerRows[0][6])
}

func TestExportShiftsLocalizesRow(t *testing.T) {
	workerID := int64(4)
	m := &mockRepos{shifts: []*models.Shift{
		{DoctorName: "Иванов", Date: "01.01.2025", Type: models.ShiftMorning, AssistantID: &workerID, AssistantName: "Анна", Speciality: "терапевт", Cabinet: "101"},
		{DoctorName: "Козлов", Date: "01.01.2025", Type: models.ShiftEvening, Manual: true},
	}}
	engine := NewEngine(m, m, m, testClock)

	require.NoError(t, engine.ExportShifts(t.Context(), "01.01.2025"))

	require.Len(t, m.shiftRows, 2)
	assert.Equal(t, []string{"Иванов", "", "Анна", "01.01.2025", "утренняя", "терапевт", "101", "Нет"}, m.shiftRows[0])
	assert.Equal(t, "вечерняя", m.shiftRows[1][4])
	assert.Equal(t, "Да", m.shiftRows[1][7])
}

func TestExportShiftsDefaultsToToday(t *testing.T) {
	m := &mockRepos{}
	engine := NewEngine(m, m, m, testClock)

	require.NoError(t, engine.ExportShifts(t.Context(), ""))
	assert.Equal(t, "01.01.2025", m.shiftDate)
}
