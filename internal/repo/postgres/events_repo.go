package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventboard/internal/domain/event"
	"eventboard/internal/observability"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *EventsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *EventsRepo) Insert(ctx context.Context, e event.Event) error {
	return r.observe("events.insert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO events(id, title, description, start_at, end_at, location, category, max_participants, image_file_id, created_at, updated_at)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			e.ID, e.Title, e.Description, e.StartAt, e.EndAt, e.Location, e.Category, e.MaxParticipants, e.ImageFileID, e.CreatedAt, e.UpdatedAt)
		return err
	})
}

func (r *EventsRepo) Update(ctx context.Context, e event.Event) error {
	return r.observe("events.update", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE events
				SET title = $2,
					description = $3,
					start_at = $4,
					end_at = $5,
					location = $6,
					category = $7,
					max_participants = $8,
					image_file_id = $9,
					updated_at = $10
			WHERE id = $1`,
			e.ID, e.Title, e.Description, e.StartAt, e.EndAt, e.Location, e.Category, e.MaxParticipants, e.ImageFileID, e.UpdatedAt)

		if err != nil {
			return err
		}

		// if there are no rows matching the id
		if tag.RowsAffected() == 0 {
			return event.ErrNotFound
		}

		return nil
	})
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	var e event.Event

	err := r.observe("events.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, description, start_at, end_at, location, category, max_participants, image_file_id, created_at, updated_at
			 FROM events WHERE id = $1`, id,
		).Scan(&e.ID, &e.Title, &e.Description, &e.StartAt, &e.EndAt, &e.Location, &e.Category, &e.MaxParticipants, &e.ImageFileID, &e.CreatedAt, &e.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}

// Query returns one page of list summaries plus the total match count.
// The participant count comes from a correlated subquery so it is always
// the live registration count, and the total is re-counted separately
// when the requested page lands past the end of the result set.
func (r *EventsRepo) Query(ctx context.Context, f event.Filter) ([]event.Summary, int, error) {
	conds, args := buildEventConds(f)

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	query := `SELECT e.id,
			e.title,
			e.start_at,
			e.end_at,
			e.location,
			e.category,
			e.max_participants,
			(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id) AS current_participants,
			e.image_file_id,
			COUNT(*) OVER() AS total
		FROM events e` + where

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY e.start_at ASC, e.id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	pageArgs := append(args, f.PageSize, f.Offset())

	var rows pgx.Rows
	var err error

	err = r.observe("events.query", func() error {
		rows, err = r.pool.Query(ctx, query, pageArgs...)
		return err
	})

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	output := make([]event.Summary, 0, f.PageSize)
	total := 0

	for rows.Next() {
		var s event.Summary
		var t int

		err = rows.Scan(&s.ID, &s.Title, &s.StartAt, &s.EndAt, &s.Location, &s.Category, &s.MaxParticipants, &s.CurrentParticipants, &s.ImageFileID, &t)

		if err != nil {
			return nil, 0, err
		}

		total = t
		output = append(output, s)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	// An out-of-range page returns zero rows, which loses the window
	// total; the caller still needs the real match count.
	if len(output) == 0 {
		err = r.observe("events.query.count", func() error {
			return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events e`+where, args...).Scan(&total)
		})
		if err != nil {
			return nil, 0, err
		}
	}

	return output, total, nil
}

func buildEventConds(f event.Filter) ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	pos := 1

	if f.Title != nil && *f.Title != "" {
		conds = append(conds, fmt.Sprintf("e.title ILIKE '%%' || $%d || '%%'", pos))
		args = append(args, *f.Title)
		pos++
	}

	if f.Location != nil && *f.Location != "" {
		conds = append(conds, fmt.Sprintf("e.location ILIKE '%%' || $%d || '%%'", pos))
		args = append(args, *f.Location)
		pos++
	}

	// NULL category never matches a present category filter
	if f.Category != nil && *f.Category != "" {
		conds = append(conds, fmt.Sprintf("e.category ILIKE '%%' || $%d || '%%'", pos))
		args = append(args, *f.Category)
		pos++
	}

	// calendar-day containment, not timestamp comparison
	if f.OnDate != nil {
		conds = append(conds, fmt.Sprintf("e.start_at::date <= $%d::date AND e.end_at::date >= $%d::date", pos, pos))
		args = append(args, event.DateOnly(*f.OnDate))
		pos++
	}

	return conds, args
}
