// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/expert-qa/db"
	"github.com/danielhkuo/expert-qa/models"
)

// QuestionStore reads and writes the questions table.
type QuestionStore struct {
	q db.DBTX
}

func NewQuestionStore(q db.DBTX) *QuestionStore {
	return &QuestionStore{q: q}
}

// Create inserts an unanswered question and returns its ID.
func (s *QuestionStore) Create(ctx context.Context, text string, askedByID, expertID int64) (int64, error) {
	var id int64
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO questions (question_text, asked_by_id, expert_id)
		VALUES (?, ?, ?)
		RETURNING id
	`, text, askedByID, expertID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

func (s *QuestionStore) Get(ctx context.Context, id int64) (*models.Question, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `
		SELECT id, question_text, answer_text, asked_by_id, expert_id
		FROM questions WHERE id = ?
	`, id))
}

// GetUnanswered returns the question only while it is still unanswered;
// an answered or absent question yields ErrNotFound.
func (s *QuestionStore) GetUnanswered(ctx context.Context, id int64) (*models.Question, error) {
	return s.scanOne(s.q.QueryRowContext(ctx, `
		SELECT id, question_text, answer_text, asked_by_id, expert_id
		FROM questions WHERE id = ? AND answer_text IS NULL
	`, id))
}

// Answer moves a question to the answered state. The update only matches
// when expertID is the addressed expert and no answer exists yet, so the
// transition happens at most once.
func (s *QuestionStore) Answer(ctx context.Context, id, expertID int64, text string) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE questions SET answer_text = ?
		WHERE id = ? AND expert_id = ? AND answer_text IS NULL
	`, text, id, expertID)
	if err != nil {
		return fmt.Errorf("answer question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("answer question: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Detail joins a question with the names of its asker and expert.
func (s *QuestionStore) Detail(ctx context.Context, id int64) (*models.QuestionDetail, error) {
	var d models.QuestionDetail
	var answer sql.NullString
	err := s.q.QueryRowContext(ctx, `
		SELECT
			q.question_text,
			q.answer_text,
			asker.name,
			expert.name
		FROM questions q
		JOIN users asker ON asker.id = q.asked_by_id
		JOIN users expert ON expert.id = q.expert_id
		WHERE q.id = ?
	`, id).Scan(&d.QuestionText, &answer, &d.AskedBy, &d.AnsweredBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query question detail: %w", err)
	}
	if answer.Valid {
		d.AnswerText = &answer.String
	}
	return &d, nil
}

// ListAnswered returns every answered question for the home listing.
func (s *QuestionStore) ListAnswered(ctx context.Context) ([]models.AnsweredQuestion, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT
			q.id,
			q.question_text,
			asker.name,
			expert.name
		FROM questions q
		JOIN users asker ON asker.id = q.asked_by_id
		JOIN users expert ON expert.id = q.expert_id
		WHERE q.answer_text IS NOT NULL
		ORDER BY q.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list answered questions: %w", err)
	}
	defer rows.Close()

	questions := []models.AnsweredQuestion{}
	for rows.Next() {
		var aq models.AnsweredQuestion
		if err := rows.Scan(&aq.QuestionID, &aq.QuestionText, &aq.AskedBy, &aq.ExpertName); err != nil {
			return nil, fmt.Errorf("scan answered question: %w", err)
		}
		questions = append(questions, aq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list answered questions: %w", err)
	}

	return questions, nil
}

// ListPending returns the unanswered questions addressed to expertID.
func (s *QuestionStore) ListPending(ctx context.Context, expertID int64) ([]models.PendingQuestion, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT
			q.id,
			q.question_text,
			asker.name
		FROM questions q
		JOIN users asker ON asker.id = q.asked_by_id
		WHERE q.answer_text IS NULL AND q.expert_id = ?
		ORDER BY q.id
	`, expertID)
	if err != nil {
		return nil, fmt.Errorf("list pending questions: %w", err)
	}
	defer rows.Close()

	questions := []models.PendingQuestion{}
	for rows.Next() {
		var pq models.PendingQuestion
		if err := rows.Scan(&pq.QuestionID, &pq.QuestionText, &pq.AskedBy); err != nil {
			return nil, fmt.Errorf("scan pending question: %w", err)
		}
		questions = append(questions, pq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending questions: %w", err)
	}

	return questions, nil
}

func (s *QuestionStore) scanOne(row *sql.Row) (*models.Question, error) {
	q := &models.Question{}
	var answer sql.NullString
	err := row.Scan(&q.ID, &q.QuestionText, &answer, &q.AskedByID, &q.ExpertID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query question: %w", err)
	}
	if answer.Valid {
		q.AnswerText = &answer.String
	}
	return q, nil
}
