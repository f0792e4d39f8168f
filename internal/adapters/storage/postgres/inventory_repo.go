package postgres

import (
	"context"
	"database/sql"
	"time"

	"cat-care-console/internal/domain/inventory"

	"github.com/shopspring/decimal"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

const itemColumns = `id, name, category, unit, stock, min_stock, created_at, updated_at`

func (r *InventoryRepo) Create(ctx context.Context, it inventory.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_items (`+itemColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, it.ID, it.Name, it.Category, it.Unit, it.Stock, toNullDecimal(it.MinStock), it.CreatedAt, it.UpdatedAt)
	return dbErr(err, "create item")
}

// Update no toca stock: solo ApplyMovement lo cambia.
func (r *InventoryRepo) Update(ctx context.Context, it inventory.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET name = $2, category = $3, unit = $4, min_stock = $5, updated_at = $6
		WHERE id = $1
	`, it.ID, it.Name, it.Category, it.Unit, toNullDecimal(it.MinStock), it.UpdatedAt)
	if err != nil {
		return dbErr(err, "update item")
	}
	return affected(res, inventory.ErrNotFound, "update item")
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	it, err := scanItem(row)
	if err != nil {
		return inventory.Item{}, notFound(err, inventory.ErrNotFound, "get item")
	}
	return it, nil
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return dbErr(err, "delete item")
	}
	return affected(res, inventory.ErrNotFound, "delete item")
}

func (r *InventoryRepo) List(ctx context.Context) ([]inventory.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items
		ORDER BY lower(name) ASC, id ASC
	`)
	if err != nil {
		return nil, dbErr(err, "list items")
	}
	defer rows.Close()

	out := make([]inventory.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, dbErr(err, "scan item")
		}
		out = append(out, it)
	}
	return out, dbErr(rows.Err(), "list items")
}

// ApplyMovement bloquea la fila del item, valida que el stock no quede negativo
// y guarda el movimiento en la misma transacción.
func (r *InventoryRepo) ApplyMovement(ctx context.Context, m inventory.Movement, at time.Time) (inventory.Item, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return inventory.Item{}, dbErr(err, "begin adjust")
	}
	defer func() { _ = tx.Rollback() }()

	it, err := scanItem(tx.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE
	`, m.ItemID))
	if err != nil {
		return inventory.Item{}, notFound(err, inventory.ErrNotFound, "lock item")
	}

	next := it.Stock.Add(m.Delta)
	if next.LessThan(decimal.Zero) {
		return inventory.Item{}, inventory.ErrInsufficientStock
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE inventory_items SET stock = $2, updated_at = $3 WHERE id = $1
	`, it.ID, next, at); err != nil {
		return inventory.Item{}, dbErr(err, "update stock")
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO inventory_movements (id, item_id, delta, reason, actor_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, m.ID, m.ItemID, m.Delta, m.Reason, m.ActorID, m.CreatedAt); err != nil {
		return inventory.Item{}, dbErr(err, "insert movement")
	}
	if err := tx.Commit(); err != nil {
		return inventory.Item{}, dbErr(err, "commit adjust")
	}

	it.Stock = next
	it.UpdatedAt = at
	return it, nil
}

func (r *InventoryRepo) ListMovements(ctx context.Context, itemID string, limit int) ([]inventory.Movement, error) {
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, delta, reason, actor_id, created_at
		FROM inventory_movements
		WHERE item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, itemID, lim)
	if err != nil {
		return nil, dbErr(err, "list movements")
	}
	defer rows.Close()

	out := make([]inventory.Movement, 0)
	for rows.Next() {
		var m inventory.Movement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Delta, &m.Reason, &m.ActorID, &m.CreatedAt); err != nil {
			return nil, dbErr(err, "scan movement")
		}
		out = append(out, m)
	}
	return out, dbErr(rows.Err(), "list movements")
}

func scanItem(s scanner) (inventory.Item, error) {
	var (
		it       inventory.Item
		minStock decimal.NullDecimal
	)
	if err := s.Scan(&it.ID, &it.Name, &it.Category, &it.Unit, &it.Stock, &minStock, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return inventory.Item{}, err
	}
	if minStock.Valid {
		v := minStock.Decimal
		it.MinStock = &v
	}
	return it, nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
