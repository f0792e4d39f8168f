package postgres

import (
	"context"
	"database/sql"
	"strings"

	"cat-care-console/internal/domain/healthlogs"
)

type HealthLogsRepo struct {
	db *sql.DB
}

func NewHealthLogsRepo(db *sql.DB) *HealthLogsRepo {
	return &HealthLogsRepo{db: db}
}

const healthLogColumns = `
	id, cat_id, type, date, title, details,
	next_due_date, is_active_treatment, created_at, updated_at`

func (r *HealthLogsRepo) Create(ctx context.Context, l healthlogs.HealthLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO health_logs (`+healthLogColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		l.ID,
		l.CatID,
		string(l.Type),
		toNullDate(&l.Date),
		l.Title,
		l.Details,
		toNullDate(l.NextDueDate),
		l.IsActiveTreatment,
		l.CreatedAt,
		l.UpdatedAt,
	)
	return dbErr(err, "create health log")
}

func (r *HealthLogsRepo) Update(ctx context.Context, l healthlogs.HealthLog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE health_logs
		SET
			date = $2,
			title = $3,
			details = $4,
			next_due_date = $5,
			is_active_treatment = $6,
			updated_at = $7
		WHERE id = $1
	`,
		l.ID,
		toNullDate(&l.Date),
		l.Title,
		l.Details,
		toNullDate(l.NextDueDate),
		l.IsActiveTreatment,
		l.UpdatedAt,
	)
	if err != nil {
		return dbErr(err, "update health log")
	}
	return affected(res, healthlogs.ErrNotFound, "update health log")
}

func (r *HealthLogsRepo) GetByID(ctx context.Context, id string) (healthlogs.HealthLog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return healthlogs.HealthLog{}, healthlogs.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+healthLogColumns+` FROM health_logs WHERE id = $1`, id)
	l, err := scanHealthLog(row)
	if err != nil {
		return healthlogs.HealthLog{}, notFound(err, healthlogs.ErrNotFound, "get health log")
	}
	return l, nil
}

func (r *HealthLogsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM health_logs WHERE id = $1`, id)
	if err != nil {
		return dbErr(err, "delete health log")
	}
	return affected(res, healthlogs.ErrNotFound, "delete health log")
}

// List usa el mismo orden que healthlogs.Newer: date, created_at, id (desc).
func (r *HealthLogsRepo) List(ctx context.Context, filter healthlogs.ListFilter) ([]healthlogs.HealthLog, error) {
	types := make([]string, 0, len(filter.Types))
	for _, t := range filter.Types {
		types = append(types, string(t))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+healthLogColumns+`
		FROM health_logs
		WHERE ($1 = '' OR cat_id = $1)
		  AND (cardinality($2::text[]) = 0 OR type = ANY($2::text[]))
		ORDER BY date DESC, created_at DESC, id DESC
	`, filter.CatID, types)
	if err != nil {
		return nil, dbErr(err, "list health logs")
	}
	defer rows.Close()

	out := make([]healthlogs.HealthLog, 0)
	for rows.Next() {
		l, err := scanHealthLog(rows)
		if err != nil {
			return nil, dbErr(err, "scan health log")
		}
		out = append(out, l)
	}
	return out, dbErr(rows.Err(), "list health logs")
}

func scanHealthLog(s scanner) (healthlogs.HealthLog, error) {
	var (
		l       healthlogs.HealthLog
		typ     string
		date    sql.NullTime
		nextDue sql.NullTime
	)
	if err := s.Scan(
		&l.ID,
		&l.CatID,
		&typ,
		&date,
		&l.Title,
		&l.Details,
		&nextDue,
		&l.IsActiveTreatment,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return healthlogs.HealthLog{}, err
	}
	l.Type = healthlogs.Type(typ)
	if d := fromNullDate(date); d != nil {
		l.Date = *d
	}
	l.NextDueDate = fromNullDate(nextDue)
	return l, nil
}
