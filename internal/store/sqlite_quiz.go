package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hyperengineering/dinacharya/internal/types"
	"github.com/oklog/ulid/v2"
)

// CreateQuizResult stores r, assigning its ID and CreatedAt.
func (s *SQLiteStore) CreateQuizResult(ctx context.Context, r *types.QuizResult) error {
	r.ID = ulid.Make().String()
	r.CreatedAt = time.Now().UTC()

	answers := r.Answers
	if answers == nil {
		answers = map[int]string{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quiz_results (id, user_email, dominant_dosha, vata, pitta, kapha, answers, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.UserEmail, r.DominantDosha, r.Scores.Vata, r.Scores.Pitta, r.Scores.Kapha,
		string(answersJSON), formatTime(r.CreatedAt))
	if err != nil {
		return unavailable("insert quiz result", err)
	}
	return nil
}

// ListQuizResults returns the user's results, newest first.
func (s *SQLiteStore) ListQuizResults(ctx context.Context, email string) ([]types.QuizResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_email, dominant_dosha, vata, pitta, kapha, answers, created_at
		FROM quiz_results
		WHERE user_email = ?
		ORDER BY created_at DESC, id DESC
	`, email)
	if err != nil {
		return nil, unavailable("query quiz results", err)
	}
	defer rows.Close()

	results := []types.QuizResult{}
	for rows.Next() {
		var r types.QuizResult
		var answersJSON, createdAt string
		if err := rows.Scan(&r.ID, &r.UserEmail, &r.DominantDosha,
			&r.Scores.Vata, &r.Scores.Pitta, &r.Scores.Kapha, &answersJSON, &createdAt); err != nil {
			return nil, unavailable("scan quiz result", err)
		}
		if answersJSON != "" {
			if err := json.Unmarshal([]byte(answersJSON), &r.Answers); err != nil {
				return nil, fmt.Errorf("parse answers JSON: %w", err)
			}
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate quiz results", err)
	}
	return results, nil
}
