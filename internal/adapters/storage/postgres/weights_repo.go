package postgres

import (
	"context"
	"database/sql"

	"cat-care-console/internal/domain/weights"
)

type WeightsRepo struct {
	db *sql.DB
}

func NewWeightsRepo(db *sql.DB) *WeightsRepo {
	return &WeightsRepo{db: db}
}

func (r *WeightsRepo) Create(ctx context.Context, l weights.WeightLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weight_logs (id, cat_id, date, weight_kg, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, l.ID, l.CatID, toNullDate(&l.Date), l.WeightKg, l.Notes, l.CreatedAt)
	return dbErr(err, "create weight log")
}

func (r *WeightsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weight_logs WHERE id = $1`, id)
	if err != nil {
		return dbErr(err, "delete weight log")
	}
	return affected(res, weights.ErrNotFound, "delete weight log")
}

func (r *WeightsRepo) ListByCat(ctx context.Context, catID string) ([]weights.WeightLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cat_id, date, weight_kg, notes, created_at
		FROM weight_logs
		WHERE ($1 = '' OR cat_id = $1)
		ORDER BY date DESC, created_at DESC, id DESC
	`, catID)
	if err != nil {
		return nil, dbErr(err, "list weight logs")
	}
	defer rows.Close()

	out := make([]weights.WeightLog, 0)
	for rows.Next() {
		var (
			l    weights.WeightLog
			date sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.CatID, &date, &l.WeightKg, &l.Notes, &l.CreatedAt); err != nil {
			return nil, dbErr(err, "scan weight log")
		}
		if d := fromNullDate(date); d != nil {
			l.Date = *d
		}
		out = append(out, l)
	}
	return out, dbErr(rows.Err(), "list weight logs")
}
