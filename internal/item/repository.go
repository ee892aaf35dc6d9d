package item

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context, filter Filter) ([]*Item, error)
	// Update locks the row, lets mutate change it and writes it back in one transaction.
	Update(ctx context.Context, id int64, mutate func(it *Item) error) (*Item, error)
	ExistsByOwner(ctx context.Context, ownerID int64) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectItems() squirrel.SelectBuilder {
	return psql.Select("id", "name", "description", "available", "owner_id", "request_id").
		From("public.items")
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match literally inside a LIKE pattern (backslash is the default escape).
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// applyFilter adds the WHERE clauses for filter to query.
func applyFilter(query squirrel.SelectBuilder, filter Filter) squirrel.SelectBuilder {
	if filter.OwnerID != 0 {
		query = query.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}
	if filter.AvailableOnly {
		query = query.Where(squirrel.Eq{"available": true})
	}
	if filter.Text != "" {
		pattern := "%" + escapeLike(filter.Text) + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	return query
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	query, args, err := psql.Insert("public.items").
		Columns("name", "description", "available", "owner_id", "request_id").
		Values(it.Name, it.Description, it.Available, it.OwnerID, it.RequestID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&it.ID); err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query, args, err := selectItems().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, err
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Item, error) {
	query := applyFilter(selectItems(), filter).OrderBy("id ASC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var result []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		result = append(result, it)
	}

	return result, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, id int64, mutate func(it *Item) error) (*Item, error) {
	var updated *Item

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := selectItems().Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
		if err != nil {
			return fmt.Errorf("build lock item query failed: %w", err)
		}

		it, err := scanItem(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return err
		}

		if err := mutate(it); err != nil {
			return err
		}

		query, args, err = psql.Update("public.items").
			Set("name", it.Name).
			Set("description", it.Description).
			Set("available", it.Available).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update item query failed: %w", err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("update item failed: %w", err)
		}

		updated = it
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *pgxRepository) ExistsByOwner(ctx context.Context, ownerID int64) (bool, error) {
	sub, args, err := psql.Select("1").
		From("public.items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build owner items query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check owner items failed: %w", err)
	}
	return exists, nil
}
