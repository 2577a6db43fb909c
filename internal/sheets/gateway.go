// Package sheets is a thin gateway over the Google Sheets values API. It
// isolates all spreadsheet IO behind row-level reads and writes so the
// engines never see HTTP.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"clinic-shifts/internal/config"
)

// Gateway reads and writes worksheet rows. All readers drop the header row.
type Gateway struct {
	cfg    config.SheetsConfig
	client *http.Client
}

func NewGateway(cfg config.SheetsConfig) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// --- Readers ---

func (g *Gateway) ReadWorkers(ctx context.Context) ([][]string, error) {
	return g.readRows(ctx, g.cfg.WorkersSheet)
}

func (g *Gateway) ReadPairs(ctx context.Context) ([][]string, error) {
	return g.readRows(ctx, g.cfg.PairsSheet)
}

func (g *Gateway) ReadSurveys(ctx context.Context) ([][]string, error) {
	return g.readRows(ctx, g.cfg.SurveysSheet)
}

func (g *Gateway) ReadShifts(ctx context.Context) ([][]string, error) {
	return g.readRows(ctx, g.cfg.ShiftsSheet)
}

func (g *Gateway) readRows(ctx context.Context, sheet string) ([][]string, error) {
	id, err := g.mainSpreadsheet()
	if err != nil {
		return nil, err
	}
	rows, err := g.getValues(ctx, id, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

// --- Writers ---

// UpsertWorkerRegistration writes a worker's registration data back to the
// roster sheet, matching by trimmed name and appending a fresh row when no
// match exists. Nil means "leave that column alone".
func (g *Gateway) UpsertWorkerRegistration(ctx context.Context, fullName string, chatID, fileID *string) error {
	id, err := g.mainSpreadsheet()
	if err != nil {
		return err
	}
	rows, err := g.getValues(ctx, id, g.cfg.WorkersSheet)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(fullName)
	targetRow := 0
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if strings.TrimSpace(row[0]) == name {
			targetRow = i + 1 // A1 rows are 1-based
			break
		}
	}

	if targetRow == 0 {
		row := []string{name, deref(fileID), deref(chatID), "", ""}
		return g.appendValues(ctx, id, g.cfg.WorkersSheet, [][]string{row})
	}
	if fileID != nil {
		if err := g.updateCell(ctx, id, g.cfg.WorkersSheet, "B", targetRow, *fileID); err != nil {
			return err
		}
	}
	if chatID != nil {
		if err := g.updateCell(ctx, id, g.cfg.WorkersSheet, "C", targetRow, *chatID); err != nil {
			return err
		}
	}
	return nil
}

// ExportAnswers replaces the answers worksheet with headers plus rows.
func (g *Gateway) ExportAnswers(ctx context.Context, headers []string, rows [][]string) error {
	id, err := g.answersSpreadsheet()
	if err != nil {
		return err
	}
	sheet := g.cfg.AnswersExportSheet
	if err := g.clearValues(ctx, id, sheet); err != nil {
		return err
	}
	return g.appendValues(ctx, id, sheet, append([][]string{headers}, rows...))
}

// ExportShifts appends the day's report, writing the header only when the
// worksheet is still empty.
func (g *Gateway) ExportShifts(ctx context.Context, headers []string, rows [][]string) error {
	id, err := g.answersSpreadsheet()
	if err != nil {
		return err
	}
	sheet := g.cfg.ShiftReportSheet
	existing, err := g.getValues(ctx, id, sheet)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		rows = append([][]string{headers}, rows...)
	}
	if len(rows) == 0 {
		return nil
	}
	return g.appendValues(ctx, id, sheet, rows)
}

// --- Spreadsheet selection ---

func (g *Gateway) mainSpreadsheet() (string, error) {
	if g.cfg.MainSpreadsheetID == "" {
		return "", fmt.Errorf("main spreadsheet is not configured")
	}
	return g.cfg.MainSpreadsheetID, nil
}

func (g *Gateway) answersSpreadsheet() (string, error) {
	if g.cfg.AnswersSpreadsheetID == "" {
		return "", fmt.Errorf("answers spreadsheet is not configured")
	}
	return g.cfg.AnswersSpreadsheetID, nil
}

// --- values API plumbing ---

type valueRange struct {
	Values [][]string `json:"values,omitempty"`
}

func (g *Gateway) getValues(ctx context.Context, spreadsheetID, sheet string) ([][]string, error) {
	var out valueRange
	path := fmt.Sprintf("/spreadsheets/%s/values/%s", spreadsheetID, sheetRange(sheet))
	if err := g.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Values, nil
}

func (g *Gateway) appendValues(ctx context.Context, spreadsheetID, sheet string, values [][]string) error {
	path := fmt.Sprintf("/spreadsheets/%s/values/%s:append?valueInputOption=RAW", spreadsheetID, sheetRange(sheet))
	return g.call(ctx, http.MethodPost, path, &valueRange{Values: values}, nil)
}

func (g *Gateway) updateCell(ctx context.Context, spreadsheetID, sheet, column string, row int, value string) error {
	cell := url.PathEscape(fmt.Sprintf("'%s'!%s%d", sheet, column, row))
	path := fmt.Sprintf("/spreadsheets/%s/values/%s?valueInputOption=RAW", spreadsheetID, cell)
	return g.call(ctx, http.MethodPut, path, &valueRange{Values: [][]string{{value}}}, nil)
}

func (g *Gateway) clearValues(ctx context.Context, spreadsheetID, sheet string) error {
	path := fmt.Sprintf("/spreadsheets/%s/values/%s:clear", spreadsheetID, sheetRange(sheet))
	return g.call(ctx, http.MethodPost, path, struct{}{}, nil)
}

// call issues one API request, retrying rate-limit and server errors.
// Engines never retry; transient transport noise is absorbed here.
func (g *Gateway) call(ctx context.Context, method, path string, body, out any) error {
	data, err := backoff.Retry(ctx, func() ([]byte, error) {
		return g.doOnce(ctx, method, path, body)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(4))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (g *Gateway) doOnce(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	if g.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("sheets api %s: status %d", path, resp.StatusCode)
	default:
		return nil, backoff.Permanent(fmt.Errorf("sheets api %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(data))))
	}
}

func sheetRange(sheet string) string {
	return url.PathEscape("'" + sheet + "'")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
