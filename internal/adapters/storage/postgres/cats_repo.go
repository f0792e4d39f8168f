package postgres

import (
	"context"
	"database/sql"
	"strings"

	"cat-care-console/internal/domain/cats"
)

type CatsRepo struct {
	db *sql.DB
}

func NewCatsRepo(db *sql.DB) *CatsRepo {
	return &CatsRepo{db: db}
}

const catColumns = `
	id, name, badge, breed, date_of_birth,
	status, location, photo_key, treatment_notes, contagious,
	is_active, created_at, updated_at`

func (r *CatsRepo) Create(ctx context.Context, c cats.Cat) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cats (`+catColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		c.ID,
		c.Name,
		c.Badge,
		toNullString(c.Breed),
		toNullDate(c.DateOfBirth),
		toNullString((*string)(c.Status)),
		toNullString((*string)(c.Location)),
		toNullString(c.PhotoKey),
		toNullString(c.TreatmentNotes),
		toNullBool(c.Contagious),
		c.IsActive,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return dbErr(err, "create cat")
}

func (r *CatsRepo) Update(ctx context.Context, c cats.Cat) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cats
		SET
			name = $2,
			badge = $3,
			breed = $4,
			date_of_birth = $5,
			status = $6,
			location = $7,
			photo_key = $8,
			treatment_notes = $9,
			contagious = $10,
			is_active = $11,
			updated_at = $12
		WHERE id = $1
	`,
		c.ID,
		c.Name,
		c.Badge,
		toNullString(c.Breed),
		toNullDate(c.DateOfBirth),
		toNullString((*string)(c.Status)),
		toNullString((*string)(c.Location)),
		toNullString(c.PhotoKey),
		toNullString(c.TreatmentNotes),
		toNullBool(c.Contagious),
		c.IsActive,
		c.UpdatedAt,
	)
	if err != nil {
		return dbErr(err, "update cat")
	}
	return affected(res, cats.ErrNotFound, "update cat")
}

func (r *CatsRepo) GetByID(ctx context.Context, id string) (cats.Cat, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cats.Cat{}, cats.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+catColumns+` FROM cats WHERE id = $1`, id)
	c, err := scanCat(row)
	if err != nil {
		return cats.Cat{}, notFound(err, cats.ErrNotFound, "get cat")
	}
	return c, nil
}

func (r *CatsRepo) List(ctx context.Context, filter cats.ListFilter) ([]cats.Cat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+catColumns+`
		FROM cats
		WHERE ($1 OR is_active)
		ORDER BY lower(name) ASC, id ASC
	`, filter.IncludeInactive)
	if err != nil {
		return nil, dbErr(err, "list cats")
	}
	defer rows.Close()

	out := make([]cats.Cat, 0)
	for rows.Next() {
		c, err := scanCat(rows)
		if err != nil {
			return nil, dbErr(err, "scan cat")
		}
		out = append(out, c)
	}
	return out, dbErr(rows.Err(), "list cats")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCat(s scanner) (cats.Cat, error) {
	var (
		c                                     cats.Cat
		breed, status, location, photo, notes sql.NullString
		dob                                   sql.NullTime
		contagious                            sql.NullBool
	)
	if err := s.Scan(
		&c.ID,
		&c.Name,
		&c.Badge,
		&breed,
		&dob,
		&status,
		&location,
		&photo,
		&notes,
		&contagious,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return cats.Cat{}, err
	}

	c.Breed = fromNullString(breed)
	c.DateOfBirth = fromNullDate(dob)
	if status.Valid {
		st := cats.Status(status.String)
		c.Status = &st
	}
	if location.Valid {
		loc := cats.Location(location.String)
		c.Location = &loc
	}
	c.PhotoKey = fromNullString(photo)
	c.TreatmentNotes = fromNullString(notes)
	if contagious.Valid {
		v := contagious.Bool
		c.Contagious = &v
	}
	return c, nil
}

func toNullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
