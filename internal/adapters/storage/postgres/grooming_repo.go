package postgres

import (
	"context"
	"database/sql"

	"cat-care-console/internal/domain/grooming"
)

type GroomingRepo struct {
	db *sql.DB
}

func NewGroomingRepo(db *sql.DB) *GroomingRepo {
	return &GroomingRepo{db: db}
}

func (r *GroomingRepo) Create(ctx context.Context, l grooming.GroomingLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO grooming_logs (id, cat_id, date, notes, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, l.ID, l.CatID, toNullDate(&l.Date), l.Notes, l.CreatedAt)
	return dbErr(err, "create grooming log")
}

func (r *GroomingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grooming_logs WHERE id = $1`, id)
	if err != nil {
		return dbErr(err, "delete grooming log")
	}
	return affected(res, grooming.ErrNotFound, "delete grooming log")
}

func (r *GroomingRepo) ListByCat(ctx context.Context, catID string) ([]grooming.GroomingLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cat_id, date, notes, created_at
		FROM grooming_logs
		WHERE ($1 = '' OR cat_id = $1)
		ORDER BY date DESC, created_at DESC
	`, catID)
	if err != nil {
		return nil, dbErr(err, "list grooming logs")
	}
	defer rows.Close()

	out := make([]grooming.GroomingLog, 0)
	for rows.Next() {
		var (
			l    grooming.GroomingLog
			date sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.CatID, &date, &l.Notes, &l.CreatedAt); err != nil {
			return nil, dbErr(err, "scan grooming log")
		}
		if d := fromNullDate(date); d != nil {
			l.Date = *d
		}
		out = append(out, l)
	}
	return out, dbErr(rows.Err(), "list grooming logs")
}
