package sheets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-shifts/internal/config"
)

// fakeSheets records writes and serves canned worksheet contents.
type fakeSheets struct {
	values  map[string][][]string // by worksheet title
	appends []appendCall
	updates []updateCall
	cleared []string
}

type appendCall struct {
	sheet  string
	values [][]string
}

type updateCall struct {
	cell  string
	value string
}

func (f *fakeSheets) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// paths look like /spreadsheets/{id}/values/{range}[:verb]
		parts := strings.SplitN(r.URL.Path, "/values/", 2)
		require.Len(t, parts, 2)
		target := parts[1]

		switch {
		case strings.HasSuffix(target, ":append"):
			var body struct {
				Values [][]string `json:"values"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			sheet := strings.Trim(strings.TrimSuffix(target, ":append"), "'")
			f.appends = append(f.appends, appendCall{sheet: sheet, values: body.Values})
			w.Write([]byte(`{}`))
		case strings.HasSuffix(target, ":clear"):
			f.cleared = append(f.cleared, strings.Trim(strings.TrimSuffix(target, ":clear"), "'"))
			w.Write([]byte(`{}`))
		case r.Method == http.MethodPut:
			var body struct {
				Values [][]string `json:"values"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.updates = append(f.updates, updateCall{cell: target, value: body.Values[0][0]})
			w.Write([]byte(`{}`))
		default:
			sheet := strings.Trim(target, "'")
			json.NewEncoder(w).Encode(map[string]any{"values": f.values[sheet]})
		}
	}
}

func newTestGateway(t *testing.T, fake *fakeSheets) *Gateway {
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	cfg := config.Default().Sheets
	cfg.BaseURL = srv.URL
	cfg.MainSpreadsheetID = "main"
	cfg.AnswersSpreadsheetID = "answers"
	return NewGateway(cfg)
}

func TestReadWorkersSkipsHeader(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]string{
		"Workers": {
			{"full_name", "file_id", "chat_id"},
			{"Анна Смирнова", "", "100"},
			{"Пётр Волков", "", ""},
		},
	}}
	g := newTestGateway(t, fake)

	rows, err := g.ReadWorkers(t.Context())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Анна Смирнова", rows[0][0])
}

func TestReadWorkersEmptySheet(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]string{}}
	g := newTestGateway(t, fake)

	rows, err := g.ReadWorkers(t.Context())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpsertRegistrationAppendsWhenUnknown(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]string{
		"Workers": {{"full_name"}, {"Кто-то Другой"}},
	}}
	g := newTestGateway(t, fake)

	chat := "42"
	require.NoError(t, g.UpsertWorkerRegistration(t.Context(), "  Анна Смирнова ", &chat, nil))

	require.Len(t, fake.appends, 1)
	assert.Equal(t, []string{"Анна Смирнова", "", "42", "", ""}, fake.appends[0].values[0])
	assert.Empty(t, fake.updates)
}

func TestUpsertRegistrationUpdatesMatchedRow(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]string{
		"Workers": {
			{"full_name", "file_id", "chat_id"},
			{"Анна Смирнова", "", ""},
		},
	}}
	g := newTestGateway(t, fake)

	file := "photo-1"
	require.NoError(t, g.UpsertWorkerRegistration(t.Context(), "Анна Смирнова", nil, &file))

	require.Len(t, fake.updates, 1)
	assert.Contains(t, fake.updates[0].cell, "B2")
	assert.Equal(t, "photo-1", fake.updates[0].value)
	assert.Empty(t, fake.appends)
}

func TestExportAnswersClearsThenWrites(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]string{}}
	g := newTestGateway(t, fake)

	err := g.ExportAnswers(t.Context(), []string{"object", "subject"}, [][]string{{"a", "b"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Answers"}, fake.cleared)
	require.Len(t, fake.appends, 1)
	assert.Equal(t, [][]string{{"object", "subject"}, {"a", "b"}}, fake.appends[0].values)
}

func TestExportShiftsHeaderOnlyWhenEmpty(t *testing.T) {
	fake := &fakeSheets{values: map[string][][]string{
		"ShiftReport": {{"doctor_name"}},
	}}
	g := newTestGateway(t, fake)

	err := g.ExportShifts(t.Context(), []string{"doctor_name"}, [][]string{{"Иванов"}})
	require.NoError(t, err)

	require.Len(t, fake.appends, 1)
	assert.Equal(t, [][]string{{"Иванов"}}, fake.appends[0].values)
}

func TestAnswersSpreadsheetRequired(t *testing.T) {
	cfg := config.Default().Sheets
	cfg.MainSpreadsheetID = "main"
	g := NewGateway(cfg)

	err := g.ExportAnswers(t.Context(), []string{"h"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "answers spreadsheet is not configured")
}
