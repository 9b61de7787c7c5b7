package postgres

import (
	"context"
	"database/sql"
	"time"

	"taskbook/internal/domain"
)

// ItemRepo implements item repository operations on DB.
type ItemRepo struct {
	db *DB
}

var _ domain.ItemRepository = (*ItemRepo)(nil)

// NewItemRepo wraps a DB as an ItemRepository.
func NewItemRepo(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

func filterClause(filter domain.ItemFilter) string {
	switch filter {
	case domain.FilterActive:
		return " AND done = FALSE"
	case domain.FilterCompleted:
		return " AND done = TRUE"
	}
	return ""
}

// Create inserts a new item owned by ownerID.
func (r *ItemRepo) Create(ctx context.Context, ownerID int64, body string) (*domain.Item, error) {
	var it domain.Item
	err := r.db.sql.QueryRowContext(ctx,
		"INSERT INTO items (body, done, owner_id, created_at) VALUES ($1, FALSE, $2, $3) RETURNING id, body, done, owner_id, created_at",
		body, ownerID, time.Now(),
	).Scan(&it.ID, &it.Body, &it.Done, &it.OwnerID, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetByID retrieves an item by ID regardless of owner.
func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	var it domain.Item
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT id, body, done, owner_id, created_at FROM items WHERE id = $1",
		id,
	).Scan(&it.ID, &it.Body, &it.Done, &it.OwnerID, &it.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// UpdateBody replaces an item's body.
func (r *ItemRepo) UpdateBody(ctx context.Context, id int64, body string) error {
	_, err := r.db.sql.ExecContext(ctx, "UPDATE items SET body = $1 WHERE id = $2", body, id)
	return err
}

// SetDone sets an item's done flag.
func (r *ItemRepo) SetDone(ctx context.Context, id int64, done bool) error {
	_, err := r.db.sql.ExecContext(ctx, "UPDATE items SET done = $1 WHERE id = $2", done, id)
	return err
}

// Delete removes an item permanently.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM items WHERE id = $1", id)
	return err
}

// List returns ownerID's items under filter in creation order.
func (r *ItemRepo) List(ctx context.Context, ownerID int64, filter domain.ItemFilter, offset, limit int) ([]domain.Item, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT id, body, done, owner_id, created_at FROM items WHERE owner_id = $1"+filterClause(filter)+" ORDER BY id ASC OFFSET $2 LIMIT $3",
		ownerID, offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Item, 0, limit)
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Body, &it.Done, &it.OwnerID, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Count returns the number of ownerID's items under filter.
func (r *ItemRepo) Count(ctx context.Context, ownerID int64, filter domain.ItemFilter) (int, error) {
	var count int
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM items WHERE owner_id = $1"+filterClause(filter),
		ownerID,
	).Scan(&count)
	return count, err
}

// DeleteCompleted removes all of ownerID's done items.
func (r *ItemRepo) DeleteCompleted(ctx context.Context, ownerID int64) (int64, error) {
	res, err := r.db.sql.ExecContext(ctx, "DELETE FROM items WHERE owner_id = $1 AND done = TRUE", ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
