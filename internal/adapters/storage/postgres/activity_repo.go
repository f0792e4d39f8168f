package postgres

import (
	"context"
	"database/sql"

	"cat-care-console/internal/domain/activity"

	"cloud.google.com/go/civil"
)

type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Create ignora un mensaje de WhatsApp repetido (mismo external_id).
func (r *ActivityRepo) Create(ctx context.Context, e activity.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_entries (
			id, cat_id, date, category, note,
			source, external_id, sender, actor_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (external_id) WHERE external_id <> '' DO NOTHING
	`,
		e.ID,
		toNullString(e.CatID),
		toNullDate(&e.Date),
		string(e.Category),
		e.Note,
		string(e.Source),
		e.ExternalID,
		e.Sender,
		e.ActorID,
		e.CreatedAt,
	)
	return dbErr(err, "create activity")
}

func (r *ActivityRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activity_entries WHERE id = $1`, id)
	if err != nil {
		return dbErr(err, "delete activity")
	}
	return affected(res, activity.ErrNotFound, "delete activity")
}

func (r *ActivityRepo) ListByDate(ctx context.Context, date civil.Date) ([]activity.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, cat_id, date, category, note, source, external_id, sender, actor_id, created_at
		FROM activity_entries
		WHERE date = $1
		ORDER BY created_at ASC, id ASC
	`, toNullDate(&date))
	if err != nil {
		return nil, dbErr(err, "list activity")
	}
	defer rows.Close()

	out := make([]activity.Entry, 0)
	for rows.Next() {
		var (
			e                activity.Entry
			catID            sql.NullString
			day              sql.NullTime
			category, source string
		)
		if err := rows.Scan(&e.ID, &catID, &day, &category, &e.Note, &source, &e.ExternalID, &e.Sender, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, dbErr(err, "scan activity")
		}
		e.CatID = fromNullString(catID)
		if d := fromNullDate(day); d != nil {
			e.Date = *d
		}
		e.Category = activity.Category(category)
		e.Source = activity.Source(source)
		out = append(out, e)
	}
	return out, dbErr(rows.Err(), "list activity")
}
