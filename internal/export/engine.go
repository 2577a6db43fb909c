// Package export serializes answers and the daily shift report for
// external publication.
package export

import (
	"context"
	"fmt"

	"clinic-shifts/internal/clock"
	"clinic-shifts/internal/models"
)

// AnswerRepo supplies completed questionnaire projections.
type AnswerRepo interface {
	ListAnswers(ctx context.Context) ([]*models.Answer, error)
}

// ShiftRepo supplies a day's shifts.
type ShiftRepo interface {
	ListShiftsByDate(ctx context.Context, date string) ([]*models.Shift, error)
}

// SheetWriter publishes tabular data.
type SheetWriter interface {
	ExportAnswers(ctx context.Context, headers []string, rows [][]string) error
	ExportShifts(ctx context.Context, headers []string, rows [][]string) error
}

var answerHeaders = []string{
	"object", "subject", "survey", "survey_date", "completed_at",
	"question1", "answer1", "question2", "answer2", "question3", "answer3",
	"question4", "answer4", "question5", "answer5",
}

var shiftHeaders = []string{
	"doctor_name", "scheduled_assistant_name", "assistant_name",
	"date", "type", "speciality", "cabinet", "manual",
}

// Engine reads aggregated data from the repositories and pushes it out.
type Engine struct {
	answers AnswerRepo
	shifts  ShiftRepo
	sheet   SheetWriter
	clk     clock.Clock
}

func NewEngine(answers AnswerRepo, shifts ShiftRepo, sheet SheetWriter, clk clock.Clock) *Engine {
	return &Engine{answers: answers, shifts: shifts, sheet: sheet, clk: clk}
}

// ExportAnswers publishes every completed questionnaire.
func (e *Engine) ExportAnswers(ctx context.Context) error {
	answers, err := e.answers.ListAnswers(ctx)
	if err != nil {
		return fmt.Errorf("export answers: %w", err)
	}
	rows := make([][]string, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, a.Row())
	}
	if err := e.sheet.ExportAnswers(ctx, answerHeaders, rows); err != nil {
		return fmt.Errorf("export answers: %w", err)
	}
	return nil
}

// ExportShifts publishes the shift report for one date (today when empty).
func (e *Engine) ExportShifts(ctx context.Context, date string) error {
	if date == "" {
		date = clock.Today(e.clk)
	}
	shifts, err := e.shifts.ListShiftsByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("export shifts: %w", err)
	}
	rows := make([][]string, 0, len(shifts))
	for _, sh := range shifts {
		rows = append(rows, shiftRow(sh))
	}
	if err := e.sheet.ExportShifts(ctx, shiftHeaders, rows); err != nil {
		return fmt.Errorf("export shifts: %w", err)
	}
	return nil
}

// shiftRow localizes the report row the way the downstream audience reads
// it: shift types in Russian, the manual flag as Да/Нет.
func shiftRow(sh *models.Shift) []string {
	shiftType := sh.Type
	switch shiftType {
	case models.ShiftMorning:
		shiftType = "утренняя"
	case models.ShiftEvening:
		shiftType = "вечерняя"
	}
	manual := "Нет"
	if sh.Manual {
		manual = "Да"
	}
	return []string{
		sh.DoctorName,
		sh.ScheduledAssistantName,
		sh.AssistantName,
		sh.Date,
		shiftType,
		sh.Speciality,
		sh.Cabinet,
		manual,
	}
}
