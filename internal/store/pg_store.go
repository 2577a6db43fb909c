// Package store implements the repository contracts over Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clinic-shifts/internal/models"
)

// PostgresStore implements the worker, shift, pair, survey and answer
// repositories over a single connection pool.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(conn *sql.DB) *PostgresStore {
	return &PostgresStore{db: conn}
}

const workerColumns = "id, full_name, file_id, chat_id, speciality, phone, is_active"

func scanWorker(row interface{ Scan(...any) error }) (*models.Worker, error) {
	var w models.Worker
	err := row.Scan(&w.ID, &w.FullName, &w.FileID, &w.ChatID, &w.Speciality, &w.Phone, &w.IsActive)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorkers returns all workers, optionally including deactivated ones.
func (s *PostgresStore) ListWorkers(ctx context.Context, includeInactive bool) ([]*models.Worker, error) {
	query := "SELECT " + workerColumns + " FROM workers"
	if !includeInactive {
		query += " WHERE is_active"
	}
	query += " ORDER BY full_name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	var workers []*models.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

// ListUnregisteredWorkers returns active workers that have no chat id yet.
func (s *PostgresStore) ListUnregisteredWorkers(ctx context.Context) ([]*models.Worker, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+workerColumns+" FROM workers WHERE is_active AND chat_id = '' ORDER BY full_name")
	if err != nil {
		return nil, fmt.Errorf("list unregistered workers: %w", err)
	}
	defer rows.Close()

	var workers []*models.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

// GetWorker fetches a worker by id; nil when absent.
func (s *PostgresStore) GetWorker(ctx context.Context, id int64) (*models.Worker, error) {
	w, err := scanWorker(s.db.QueryRowContext(ctx,
		"SELECT "+workerColumns+" FROM workers WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return w, err
}

// GetWorkerByChatID fetches a worker by external contact handle.
func (s *PostgresStore) GetWorkerByChatID(ctx context.Context, chatID string, includeInactive bool) (*models.Worker, error) {
	query := "SELECT " + workerColumns + " FROM workers WHERE chat_id = $1"
	if !includeInactive {
		query += " AND is_active"
	}
	w, err := scanWorker(s.db.QueryRowContext(ctx, query, chatID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return w, err
}

// AddWorker inserts a new worker and returns its id.
func (s *PostgresStore) AddWorker(ctx context.Context, w *models.Worker) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO workers (full_name, file_id, chat_id, speciality, phone, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE) RETURNING id`,
		w.FullName, w.FileID, w.ChatID, w.Speciality, w.Phone).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add worker: %w", err)
	}
	return id, nil
}

// SetWorkerActive flips the soft-delete flag.
func (s *PostgresStore) SetWorkerActive(ctx context.Context, id int64, active bool) error {
	_, err := s.db.ExecContext(ctx, "UPDATE workers SET is_active = $2 WHERE id = $1", id, active)
	return err
}

// SetWorkerChatID fills the chat id only when it is still empty.
func (s *PostgresStore) SetWorkerChatID(ctx context.Context, id int64, chatID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE workers SET chat_id = $2 WHERE id = $1 AND chat_id = ''", id, chatID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// SetWorkerFileID fills the photo reference only when it is still empty.
func (s *PostgresStore) SetWorkerFileID(ctx context.Context, id int64, fileID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE workers SET file_id = $2 WHERE id = $1 AND file_id = ''", id, fileID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// AddPair appends one questionnaire pairing.
func (s *PostgresStore) AddPair(ctx context.Context, p *models.Pair) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pairs (subject, object, survey, weekday, date) VALUES ($1, $2, $3, $4, $5)`,
		p.Subject, p.Object, p.Survey, p.Weekday, p.Date)
	return err
}

// DeletePairsByDate clears the pairings recorded for one date.
func (s *PostgresStore) DeletePairsByDate(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM pairs WHERE date = $1", date)
	return err
}

// ClearSurveys removes every persisted survey definition.
func (s *PostgresStore) ClearSurveys(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM surveys")
	return err
}

// AddSurvey inserts one survey definition.
func (s *PostgresStore) AddSurvey(ctx context.Context, sv *models.Survey) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO surveys (id, speciality,
			question1, question1_type, question2, question2_type,
			question3, question3_type, question4, question4_type,
			question5, question5_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sv.ID, sv.Speciality,
		sv.Questions[0].Text, sv.Questions[0].Type,
		sv.Questions[1].Text, sv.Questions[1].Type,
		sv.Questions[2].Text, sv.Questions[2].Type,
		sv.Questions[3].Text, sv.Questions[3].Type,
		sv.Questions[4].Text, sv.Questions[4].Type)
	return err
}

// ListAnswers returns every completed questionnaire projection.
func (s *PostgresStore) ListAnswers(ctx context.Context) ([]*models.Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT object, subject, survey, survey_date, completed_at,
			question1, answer1, question2, answer2, question3, answer3,
			question4, answer4, question5, answer5
		 FROM answers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var answers []*models.Answer
	for rows.Next() {
		var a models.Answer
		err := rows.Scan(&a.Object, &a.Subject, &a.Survey, &a.SurveyDate, &a.CompletedAt,
			&a.Question1, &a.Answer1, &a.Question2, &a.Answer2, &a.Question3, &a.Answer3,
			&a.Question4, &a.Answer4, &a.Question5, &a.Answer5)
		if err != nil {
			return nil, err
		}
		answers = append(answers, &a)
	}
	return answers, rows.Err()
}
