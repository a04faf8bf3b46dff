package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"

	"quizhost/internal/domain"
)

const attemptColumns = `id, quiz_id, quiz_title, user_name, user_email, roll_number,
	answers, score, total_questions, expired, completed_at`

// InsertAttempt writes the attempt document and bumps the quiz's
// participant_count inside the same transaction.
func (s *Store) InsertAttempt(ctx context.Context, attempt domain.Attempt) error {
	answers, err := marshalJSON(attempt.Answers)
	if err != nil {
		return err
	}
	return s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO attempts (`+attemptColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			attempt.ID, attempt.QuizID, attempt.QuizTitle, attempt.UserName, attempt.UserEmail, attempt.RollNumber,
			answers, attempt.Score, attempt.TotalQuestions, attempt.Expired, attempt.CompletedAt)
		if err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		// The quiz may have been deleted mid-attempt; the attempt still records.
		if _, err := tx.Exec(ctx, `
			UPDATE quizzes SET participant_count = participant_count + 1 WHERE id=$1`, attempt.QuizID); err != nil {
			return fmt.Errorf("bump participant count: %w", err)
		}
		return nil
	})
}

func (s *Store) ListAttempts(ctx context.Context, quizID string) ([]domain.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts ORDER BY completed_at DESC`
	args := []interface{}{}
	if quizID != "" {
		query = `SELECT ` + attemptColumns + ` FROM attempts WHERE quiz_id=$1 ORDER BY completed_at DESC`
		args = append(args, quizID)
	}
	return s.listAttempts(ctx, query, args...)
}

func (s *Store) ListAttemptsByQuizOwner(ctx context.Context, ownerEmail, quizID string) ([]domain.Attempt, error) {
	query := `
		SELECT a.id, a.quiz_id, a.quiz_title, a.user_name, a.user_email, a.roll_number,
			a.answers, a.score, a.total_questions, a.expired, a.completed_at
		FROM attempts a JOIN quizzes q ON q.id = a.quiz_id
		WHERE q.created_by=$1`
	args := []interface{}{ownerEmail}
	if quizID != "" {
		query += ` AND a.quiz_id=$2`
		args = append(args, quizID)
	}
	query += ` ORDER BY a.completed_at DESC`
	return s.listAttempts(ctx, query, args...)
}

func (s *Store) listAttempts(ctx context.Context, query string, args ...interface{}) ([]domain.Attempt, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	attempts := []domain.Attempt{}
	for rows.Next() {
		var a domain.Attempt
		var answers []byte
		if err := rows.Scan(&a.ID, &a.QuizID, &a.QuizTitle, &a.UserName, &a.UserEmail, &a.RollNumber,
			&answers, &a.Score, &a.TotalQuestions, &a.Expired, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
