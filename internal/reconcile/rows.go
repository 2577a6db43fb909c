package reconcile

import (
	"strconv"
	"strings"

	"clinic-shifts/internal/models"
)

// The source worksheets are untyped string grids with fixed column
// positions. The decoders below name every column and bounds-check it; a
// non-empty skip reason means the row is dropped, never the batch.

// noPlannedAssistant is the sentinel the schedule sheet uses for slots
// without a planned assistant.
const noPlannedAssistant = "-----------"

// col returns the trimmed cell at index i, or "" when the row is short.
func col(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

type workerRow struct {
	FullName   string
	FileID     string
	ChatID     string
	Speciality string
	Phone      string
}

func decodeWorkerRow(row []string) (workerRow, string) {
	w := workerRow{
		FullName:   col(row, 0),
		FileID:     col(row, 1),
		ChatID:     col(row, 2),
		Speciality: col(row, 3),
		Phone:      col(row, 4),
	}
	if w.FullName == "" {
		return workerRow{}, "empty name"
	}
	return w, ""
}

func decodePairRow(row []string, targetDate string) (*models.Pair, string) {
	if len(row) < 5 {
		return nil, "short row"
	}
	p := &models.Pair{
		Subject: col(row, 0),
		Object:  col(row, 1),
		Survey:  col(row, 2),
		Weekday: col(row, 3),
		Date:    col(row, 4),
	}
	if p.Date != targetDate {
		return nil, "date mismatch"
	}
	return p, ""
}

func decodeSurveyRow(row []string) (*models.Survey, string) {
	raw := col(row, 0)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return nil, "non-numeric id"
	}
	s := &models.Survey{ID: id, Speciality: col(row, 1)}
	for i := 0; i < models.MaxSurveyQuestions; i++ {
		s.Questions[i] = models.SurveyQuestion{
			Text: col(row, 2+2*i),
			Type: col(row, 3+2*i),
		}
	}
	return s, ""
}

func decodeShiftRow(row []string) (*models.Shift, string) {
	if len(row) < 7 {
		return nil, "short row"
	}

	var shiftType string
	switch col(row, 1) {
	case "1":
		shiftType = models.ShiftMorning
	case "2":
		shiftType = models.ShiftEvening
	default:
		return nil, "unknown shift code"
	}

	sh := &models.Shift{
		Type:                   shiftType,
		Date:                   col(row, 2),
		DoctorName:             col(row, 3),
		ScheduledAssistantName: col(row, 4),
		Speciality:             col(row, 5),
		Cabinet:                col(row, 6),
	}
	if sh.DoctorName == "" || sh.Date == "" {
		return nil, "missing doctor or date"
	}
	if sh.ScheduledAssistantName == noPlannedAssistant {
		sh.ScheduledAssistantName = ""
	}
	return sh, ""
}
