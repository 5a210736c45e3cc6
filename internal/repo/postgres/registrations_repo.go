package postgres

import (
	"context"
	"errors"

	"eventboard/internal/domain/event"
	"eventboard/internal/domain/registration"
	"eventboard/internal/observability"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewRegistrationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RegistrationsRepo {
	return &RegistrationsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *RegistrationsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// Insert enrolls a user into an event inside a single transaction.
// The event row is locked FOR UPDATE before the capacity recount runs,
// so a waiter that unblocks behind a committed registration counts it;
// counting in the locking statement itself would reuse the snapshot
// taken before the lock was granted. The unique index on
// (event_id, user_id) backstops the duplicate pre-check.
func (r *RegistrationsRepo) Insert(ctx context.Context, reg registration.Registration) error {
	return r.observe("registrations.insert", func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		var exists bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM registrations WHERE event_id = $1 AND user_id = $2)`,
			reg.EventID, reg.UserID,
		).Scan(&exists)

		if err != nil {
			return err
		}

		if exists {
			return registration.ErrAlreadyRegistered
		}

		var maxParticipants int
		err = tx.QueryRow(ctx,
			`SELECT max_participants FROM events WHERE id = $1 FOR UPDATE`,
			reg.EventID,
		).Scan(&maxParticipants)

		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return event.ErrNotFound
			}
			return err
		}

		var current int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM registrations WHERE event_id = $1`,
			reg.EventID,
		).Scan(&current)

		if err != nil {
			return err
		}

		if current >= maxParticipants {
			return registration.ErrEventFull
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO registrations(id, event_id, user_id, registration_date, created_at)
			 VALUES($1,$2,$3,$4,$5)`,
			reg.ID, reg.EventID, reg.UserID, reg.RegistrationDate, reg.CreatedAt)

		if err != nil {
			if IsUniqueViolation(err, "registrations_event_user_uniq") {
				return registration.ErrAlreadyRegistered
			}
			return err
		}

		return tx.Commit(ctx)
	})
}

func (r *RegistrationsRepo) Find(ctx context.Context, eventID, userID string) (registration.Registration, error) {
	var reg registration.Registration

	err := r.observe("registrations.find", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, event_id, user_id, registration_date, created_at
			 FROM registrations WHERE event_id = $1 AND user_id = $2`,
			eventID, userID,
		).Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.RegistrationDate, &reg.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return registration.Registration{}, registration.ErrNotFound
		}
		return registration.Registration{}, err
	}

	return reg, nil
}

func (r *RegistrationsRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int

	err := r.observe("registrations.count_by_event", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID,
		).Scan(&count)
	})

	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *RegistrationsRepo) ListParticipants(ctx context.Context, eventID string) ([]registration.Participant, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("registrations.list_participants", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT r.user_id, u.first_name, u.last_name, u.birthday, r.registration_date
			 FROM registrations r
			 JOIN users u ON u.id = r.user_id
			 WHERE r.event_id = $1
			 ORDER BY r.created_at ASC, r.id ASC`,
			eventID)
		return err
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	output := make([]registration.Participant, 0)

	for rows.Next() {
		var p registration.Participant

		err = rows.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Birthday, &p.RegistrationDate)

		if err != nil {
			return nil, err
		}

		output = append(output, p)
	}

	return output, rows.Err()
}

func (r *RegistrationsRepo) GetParticipant(ctx context.Context, eventID, userID string) (registration.Participant, error) {
	var p registration.Participant

	err := r.observe("registrations.get_participant", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT r.user_id, u.first_name, u.last_name, u.birthday, r.registration_date
			 FROM registrations r
			 JOIN users u ON u.id = r.user_id
			 WHERE r.event_id = $1 AND r.user_id = $2`,
			eventID, userID,
		).Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Birthday, &p.RegistrationDate)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return registration.Participant{}, registration.ErrNotFound
		}
		return registration.Participant{}, err
	}

	return p, nil
}

func (r *RegistrationsRepo) ListEventsForUser(ctx context.Context, userID string) ([]event.Summary, error) {
	var rows pgx.Rows
	var err error

	err = r.observe("registrations.events_for_user", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT e.id,
				e.title,
				e.start_at,
				e.end_at,
				e.location,
				e.category,
				e.max_participants,
				(SELECT COUNT(*) FROM registrations x WHERE x.event_id = e.id),
				e.image_file_id
			 FROM registrations r
			 JOIN events e ON e.id = r.event_id
			 WHERE r.user_id = $1
			 ORDER BY e.start_at ASC, e.id ASC`,
			userID)
		return err
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	output := make([]event.Summary, 0)

	for rows.Next() {
		var s event.Summary

		err = rows.Scan(&s.ID, &s.Title, &s.StartAt, &s.EndAt, &s.Location, &s.Category, &s.MaxParticipants, &s.CurrentParticipants, &s.ImageFileID)

		if err != nil {
			return nil, err
		}

		output = append(output, s)
	}

	return output, rows.Err()
}

func (r *RegistrationsRepo) Delete(ctx context.Context, eventID, userID string) error {
	return r.observe("registrations.delete", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM registrations WHERE event_id = $1 AND user_id = $2`,
			eventID, userID)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return registration.ErrNotFound
		}

		return nil
	})
}

// IsUniqueViolation reports whether err is a Postgres unique_violation
// on the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
	}

	return false
}
