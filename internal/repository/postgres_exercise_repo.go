package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/exertrack/internal/model"
)

// PostgresExerciseRepo はPostgreSQLを使用したエクササイズログリポジトリ。
// ログはexercisesテーブルの行として保持され、seq列が挿入順を定める。
type PostgresExerciseRepo struct {
	db *sql.DB
}

// NewPostgresExerciseRepo はPostgresExerciseRepoを生成する。
func NewPostgresExerciseRepo(db *sql.DB) *PostgresExerciseRepo {
	return &PostgresExerciseRepo{db: db}
}

// Append はユーザーのログ末尾にエクササイズを1件追加する。
func (r *PostgresExerciseRepo) Append(ctx context.Context, userID string, exercise model.Exercise) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO exercises (user_id, description, duration_minutes, date)
		 VALUES ($1, $2, $3, $4)`,
		userID, exercise.Description, exercise.Duration, exercise.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to append exercise: %w", err)
	}

	return nil
}

// ListByUser はユーザーのログをフィルタ適用済みで挿入順に返す。
// From→To→Limitの順で適用する。Limitはフィルタ後の先頭からの件数。
func (r *PostgresExerciseRepo) ListByUser(ctx context.Context, userID string, query model.LogQuery) ([]model.Exercise, error) {
	sqlQuery := `SELECT description, duration_minutes, date FROM exercises WHERE user_id = $1`
	args := []any{userID}

	if query.From != nil {
		args = append(args, *query.From)
		sqlQuery += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if query.To != nil {
		args = append(args, *query.To)
		sqlQuery += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	sqlQuery += " ORDER BY seq"

	if query.Limit != nil {
		args = append(args, *query.Limit)
		sqlQuery += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	exercises := []model.Exercise{}
	for rows.Next() {
		var ex model.Exercise
		if err := rows.Scan(&ex.Description, &ex.Duration, &ex.Date); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exercises: %w", err)
	}

	return exercises, nil
}

// CountByUser はユーザーのログ全体の件数を返す。
// countは永続化せず、常にここで数え直す。
func (r *PostgresExerciseRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exercises WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count exercises: %w", err)
	}

	return count, nil
}

// compile-time interface check
var _ ExerciseRepository = (*PostgresExerciseRepo)(nil)
