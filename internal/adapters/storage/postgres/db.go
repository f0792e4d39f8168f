package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cat-care-console/internal/adapters/storage/postgres/migrations"
	"cat-care-console/internal/config"
	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/caldate"

	"cloud.google.com/go/civil"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// gooseUp y gooseRun se reemplazan en tests.
var (
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	}
	gooseRun = func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error {
		return goose.RunContext(ctx, command, db, dir, args...)
	}
)

func useEmbedded() error {
	goose.SetBaseFS(migrations.FS)
	return goose.SetDialect("postgres")
}

// Migrate aplica las migraciones embebidas.
func Migrate(ctx context.Context, db *sql.DB) error {
	if err := useEmbedded(); err != nil {
		return err
	}
	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// RunMigrations ejecuta un comando de goose (up, down, status, version, redo)
// sobre las migraciones embebidas.
func RunMigrations(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if err := useEmbedded(); err != nil {
		return err
	}
	if err := gooseRun(ctx, command, db, ".", args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

func dbErr(err error, op string) error {
	if err == nil {
		return nil
	}
	return apperr.Wrap(apperr.CodeDB, err, op)
}

// notFound traduce sql.ErrNoRows al sentinel del dominio.
func notFound(err error, sentinel error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return dbErr(err, op)
}

func affected(res sql.Result, sentinel error, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbErr(err, op)
	}
	if n == 0 {
		return sentinel
	}
	return nil
}

// DATE se guarda como medianoche UTC; ver caldate.FromTime.
func toNullDate(d *civil.Date) sql.NullTime {
	if !caldate.Valid(d) {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: caldate.ToTime(*d), Valid: true}
}

func fromNullDate(t sql.NullTime) *civil.Date {
	if !t.Valid {
		return nil
	}
	d := caldate.FromTime(t.Time)
	return &d
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
