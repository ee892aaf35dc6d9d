package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	// Decide locks the booking, lets mutate change its status and persists it in one transaction.
	Decide(ctx context.Context, id int64, mutate func(b *Booking) error) (*Booking, error)
	// ExistsFinished reports whether bookerID has a booking of itemID that ended before now.
	ExistsFinished(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
	// Nearest returns the latest non-rejected booking started by now and the earliest one after it.
	Nearest(ctx context.Context, itemID int64, now time.Time) (last, next *Short, err error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectBookings() squirrel.SelectBuilder {
	return psql.Select(
		"b.id", "b.start_time", "b.end_time", "b.status",
		"i.id", "i.name", "i.owner_id",
		"u.id", "u.name",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.Status,
		&b.Item.ID, &b.Item.Name, &b.Item.OwnerID,
		&b.Booker.ID, &b.Booker.Name,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// stateCondition is the predicate selecting the bookings of a bucket. ALL has none.
func stateCondition(state State, now time.Time) squirrel.Sqlizer {
	switch state {
	case StateCurrent:
		return squirrel.And{
			squirrel.LtOrEq{"b.start_time": now},
			squirrel.GtOrEq{"b.end_time": now},
		}
	case StatePast:
		return squirrel.Lt{"b.end_time": now}
	case StateFuture:
		return squirrel.Gt{"b.start_time": now}
	case StateWaiting:
		return squirrel.Eq{"b.status": string(StatusWaiting)}
	case StateRejected:
		return squirrel.Eq{"b.status": string(StatusRejected)}
	default:
		return nil
	}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("start_time", "end_time", "item_id", "booker_id", "status").
		Values(b.Start, b.End, b.Item.ID, b.Booker.ID, string(b.Status)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectBookings().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, err
}

// listQuery builds the SELECT for filter.
func listQuery(filter Filter) squirrel.SelectBuilder {
	query := selectBookings()

	if filter.BookerID != 0 {
		query = query.Where(squirrel.Eq{"b.booker_id": filter.BookerID})
	}
	if filter.OwnerID != 0 {
		query = query.Where(squirrel.Eq{"i.owner_id": filter.OwnerID})
	}
	if cond := stateCondition(filter.State, filter.Now); cond != nil {
		query = query.Where(cond)
	}

	if filter.Ascending {
		query = query.OrderBy("b.start_time ASC", "b.id ASC")
	} else {
		query = query.OrderBy("b.start_time DESC", "b.id DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	return query
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	sql, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

func (r *pgxRepository) Decide(ctx context.Context, id int64, mutate func(b *Booking) error) (*Booking, error) {
	var decided *Booking

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := selectBookings().
			Where(squirrel.Eq{"b.id": id}).
			Suffix("FOR UPDATE OF b").
			ToSql()
		if err != nil {
			return fmt.Errorf("build lock booking query failed: %w", err)
		}

		b, err := scanBooking(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return err
		}

		if err := mutate(b); err != nil {
			return err
		}

		query, args, err = psql.Update("public.bookings").
			Set("status", string(b.Status)).
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update booking query failed: %w", err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("update booking failed: %w", err)
		}

		decided = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return decided, nil
}

func (r *pgxRepository) ExistsFinished(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"booker_id": bookerID, "item_id": itemID}).
		Where(squirrel.Lt{"end_time": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}

// nearestQuery selects the single non-rejected booking of itemID matching cond in the given order.
func nearestQuery(itemID int64, cond squirrel.Sqlizer, order string) squirrel.SelectBuilder {
	return psql.Select("id", "booker_id", "start_time", "end_time").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.NotEq{"status": string(StatusRejected)}).
		Where(cond).
		OrderBy(order).
		Limit(1)
}

func (r *pgxRepository) Nearest(ctx context.Context, itemID int64, now time.Time) (*Short, *Short, error) {
	last, err := r.queryShort(ctx, nearestQuery(itemID, squirrel.LtOrEq{"start_time": now}, "start_time DESC"))
	if err != nil {
		return nil, nil, err
	}

	next, err := r.queryShort(ctx, nearestQuery(itemID, squirrel.Gt{"start_time": now}, "start_time ASC"))
	if err != nil {
		return nil, nil, err
	}

	return last, next, nil
}

// queryShort runs query and returns nil when it yields no row.
func (r *pgxRepository) queryShort(ctx context.Context, query squirrel.SelectBuilder) (*Short, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build nearest booking query failed: %w", err)
	}

	var s Short
	err = r.pool.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.BookerID, &s.Start, &s.End)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get nearest booking failed: %w", err)
	}
	return &s, nil
}
