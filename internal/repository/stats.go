package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

// CountByStatus - количество постов в каждом статусе, для админской статистики.
func (r *statsRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `
			SELECT status, COUNT(*)
			FROM blogs
			GROUP BY status
		`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчете постов по статусам: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ошибка при чтении статистики: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении статистики: %w", err)
	}

	return counts, nil
}
