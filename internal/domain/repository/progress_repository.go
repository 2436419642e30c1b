package repository

import (
	"context"
	"database/sql"
	"fmt"

	"codecrux/internal/domain/model"
)

// ProgressRepository persists "problem solved" facts and point totals. The
// primary key on (user_id, problem_id) is the at-most-once crediting gate:
// only the transaction whose insert actually created the row may add points.
type ProgressRepository interface {
	// CreditSolve records (userID, problemID) as solved and, when this call
	// created the record, adds points to the user in the same transaction.
	// inserted reports whether this call created the record; total is the
	// user's point total afterwards and is only meaningful when inserted.
	CreditSolve(ctx context.Context, userID string, problemID, points int) (inserted bool, total int, err error)
	SolvedProblemIDs(ctx context.Context, userID string) ([]int, error)
	UserPoints(ctx context.Context, userID string) (int, error)
	GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

type pgProgressRepository struct {
	db *sql.DB
}

func NewPgProgressRepository(db *sql.DB) ProgressRepository {
	return &pgProgressRepository{db: db}
}

func (r *pgProgressRepository) CreditSolve(ctx context.Context, userID string, problemID, points int) (bool, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("pgProgressRepository.CreditSolve begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO user_solved_problems (user_id, problem_id)
		 VALUES ($1, $2) ON CONFLICT (user_id, problem_id) DO NOTHING`,
		userID, problemID)
	if err != nil {
		return false, 0, fmt.Errorf("pgProgressRepository.CreditSolve insert: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, 0, fmt.Errorf("pgProgressRepository.CreditSolve rows affected: %w", err)
	}
	if rows == 0 {
		// Already solved; nothing to award.
		if err := tx.Commit(); err != nil {
			return false, 0, fmt.Errorf("pgProgressRepository.CreditSolve commit: %w", err)
		}
		return false, 0, nil
	}

	var total int
	err = tx.QueryRowContext(ctx,
		`UPDATE users SET points = points + $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 RETURNING points`,
		points, userID).Scan(&total)
	if err != nil {
		// Rolls back the solved record too, keeping the ledger consistent.
		return false, 0, fmt.Errorf("pgProgressRepository.CreditSolve add points: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("pgProgressRepository.CreditSolve commit: %w", err)
	}
	return true, total, nil
}

func (r *pgProgressRepository) SolvedProblemIDs(ctx context.Context, userID string) ([]int, error) {
	query := `SELECT problem_id FROM user_solved_problems WHERE user_id = $1 ORDER BY problem_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.SolvedProblemIDs query: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgProgressRepository.SolvedProblemIDs scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.SolvedProblemIDs rows.Err: %w", err)
	}
	return ids, nil
}

func (r *pgProgressRepository) UserPoints(ctx context.Context, userID string) (int, error) {
	var points int
	err := r.db.QueryRowContext(ctx, `SELECT points FROM users WHERE id = $1`, userID).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("pgProgressRepository.UserPoints: %w", err)
	}
	return points, nil
}

func (r *pgProgressRepository) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	query := `
        SELECT u.id, u.username, u.points, COUNT(sp.problem_id) AS solved
        FROM users u
        LEFT JOIN user_solved_problems sp ON sp.user_id = u.id
        GROUP BY u.id, u.username, u.points
        ORDER BY u.points DESC, solved DESC, u.username ASC
        LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.GetLeaderboard query: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Points, &e.ProblemsSolved); err != nil {
			return nil, fmt.Errorf("pgProgressRepository.GetLeaderboard scan: %w", err)
		}
		rank++
		e.Rank = rank
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.GetLeaderboard rows.Err: %w", err)
	}
	return entries, nil
}
