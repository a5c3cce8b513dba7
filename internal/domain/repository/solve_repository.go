package repository

import (
	"context"
	"database/sql"
	"fmt"
	"vjbot/internal/domain/model"
)

type SolveRepository interface {
	// Append records one terminal verdict. Idempotent per handle: delivering
	// the same handle twice leaves exactly one row.
	Append(ctx context.Context, rec *model.SolveRecord) error
	// Leaderboard aggregates distinct accepted problems per user, computed
	// per call so a fresh solve is visible immediately. Empty judge means
	// all judges.
	Leaderboard(ctx context.Context, judge string, limit int) ([]model.LeaderboardEntry, error)
	ListByUser(ctx context.Context, userID, judge string, limit int) ([]model.SolveRecord, error)
}

type pgSolveRepository struct {
	db *sql.DB
}

func NewPgSolveRepository(db *sql.DB) SolveRepository {
	return &pgSolveRepository{db: db}
}

func (r *pgSolveRepository) Append(ctx context.Context, rec *model.SolveRecord) error {
	query := `INSERT INTO solves (handle, user_id, judge, problem_id, verdict, time_ms, memory_kb, submitted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (handle) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query,
		rec.Handle, rec.UserID, rec.Judge, rec.ProblemID, rec.Verdict, rec.TimeMs, rec.MemoryKb, rec.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("pgSolveRepository.Append: %w", err)
	}
	return nil
}

func (r *pgSolveRepository) Leaderboard(ctx context.Context, judge string, limit int) ([]model.LeaderboardEntry, error) {
	// A problem is identified by (judge, problem_id); "123A" on two judges
	// counts twice.
	query := `SELECT user_id, COUNT(DISTINCT (judge, problem_id)) AS solved, MIN(submitted_at) AS first_accepted
	          FROM solves
	          WHERE verdict = $1 AND ($2 = '' OR judge = $2)
	          GROUP BY user_id
	          ORDER BY solved DESC, first_accepted ASC
	          LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, model.VerdictAccepted, judge, limit)
	if err != nil {
		return nil, fmt.Errorf("pgSolveRepository.Leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.ProblemsSolved, &e.FirstAcceptedAt); err != nil {
			return nil, fmt.Errorf("pgSolveRepository.Leaderboard scan: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSolveRepository.Leaderboard rows: %w", err)
	}
	return entries, nil
}

func (r *pgSolveRepository) ListByUser(ctx context.Context, userID, judge string, limit int) ([]model.SolveRecord, error) {
	query := `SELECT handle, user_id, judge, problem_id, verdict, time_ms, memory_kb, submitted_at
	          FROM solves
	          WHERE user_id = $1 AND ($2 = '' OR judge = $2)
	          ORDER BY submitted_at DESC
	          LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, userID, judge, limit)
	if err != nil {
		return nil, fmt.Errorf("pgSolveRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var records []model.SolveRecord
	for rows.Next() {
		var rec model.SolveRecord
		if err := rows.Scan(&rec.Handle, &rec.UserID, &rec.Judge, &rec.ProblemID, &rec.Verdict, &rec.TimeMs, &rec.MemoryKb, &rec.SubmittedAt); err != nil {
			return nil, fmt.Errorf("pgSolveRepository.ListByUser scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSolveRepository.ListByUser rows: %w", err)
	}
	return records, nil
}
