package favorites

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/countryexplorer/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]string, error) {
	query :=
		`SELECT country_code FROM favorites
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	codes := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return codes, nil
}

func (r *PostgresRepository) Add(ctx context.Context, userID, code string) (bool, error) {
	query :=
		`INSERT INTO favorites (user_id, country_code)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, country_code) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, userID, code)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, code string) error {
	query :=
		`DELETE FROM favorites
		 WHERE user_id = $1 AND country_code = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, code); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
