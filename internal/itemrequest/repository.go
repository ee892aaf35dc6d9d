package itemrequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *ItemRequest) error
	GetByID(ctx context.Context, id int64) (*ItemRequest, error)
	List(ctx context.Context, filter Filter) ([]*ItemRequest, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// fulfillingItemsColumn aggregates the items that answer a request as a JSON array.
const fulfillingItemsColumn = `COALESCE(
	(
		SELECT json_agg(json_build_object(
			'id', i.id,
			'name', i.name,
			'description', i.description,
			'available', i.available,
			'owner_id', i.owner_id,
			'request_id', i.request_id
		) ORDER BY i.id)
		FROM public.items i
		WHERE i.request_id = r.id
	),
	'[]'::json
) AS items`

func selectRequests() squirrel.SelectBuilder {
	return psql.Select("r.id", "r.description", "r.requester_id", "r.created_at", fulfillingItemsColumn).
		From("public.item_requests r")
}

func scanRequest(row pgx.Row) (*ItemRequest, error) {
	var (
		r         ItemRequest
		itemsJSON []byte
	)
	if err := row.Scan(&r.ID, &r.Description, &r.RequesterID, &r.CreatedAt, &itemsJSON); err != nil {
		return nil, err
	}

	r.Items = []FulfillingItem{}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &r.Items); err != nil {
			return nil, fmt.Errorf("decode items of request %d: %w", r.ID, err)
		}
	}
	return &r, nil
}

func (p *pgxRepository) Create(ctx context.Context, r *ItemRequest) error {
	query, args, err := psql.Insert("public.item_requests").
		Columns("description", "requester_id", "created_at").
		Values(r.Description, r.RequesterID, r.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create request query failed: %w", err)
	}

	if err := p.pool.QueryRow(ctx, query, args...).Scan(&r.ID); err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	r.Items = []FulfillingItem{}
	return nil
}

func (p *pgxRepository) GetByID(ctx context.Context, id int64) (*ItemRequest, error) {
	query, args, err := selectRequests().Where(squirrel.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get request query failed: %w", err)
	}

	r, err := scanRequest(p.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return r, nil
}

func (p *pgxRepository) List(ctx context.Context, filter Filter) ([]*ItemRequest, error) {
	query := selectRequests()

	if filter.RequesterID != 0 {
		query = query.Where(squirrel.Eq{"r.requester_id": filter.RequesterID})
	}
	if filter.ExcludeRequesterID != 0 {
		query = query.Where(squirrel.NotEq{"r.requester_id": filter.ExcludeRequesterID})
	}

	query = query.OrderBy("r.created_at DESC", "r.id DESC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list requests query failed: %w", err)
	}

	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests failed: %w", err)
	}
	defer rows.Close()

	var result []*ItemRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request failed: %w", err)
		}
		result = append(result, r)
	}

	return result, rows.Err()
}
