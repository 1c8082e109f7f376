package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stagebook/stagebook/internal/model"
)

// ErrActorNotFound is returned when an actor lookup fails.
var ErrActorNotFound = errors.New("actor not found")

// ActorRepo provides persistence for actors.
type ActorRepo struct {
	db *sql.DB
}

func NewActorRepo(db *sql.DB) *ActorRepo { return &ActorRepo{db: db} }

// Create inserts an actor and sets the generated ID on the passed struct.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO actors (first_name, last_name) VALUES (?, ?)`,
		a.FirstName, a.LastName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID retrieves an actor.  Returns ErrActorNotFound when no row exists.
func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (*model.Actor, error) {
	var a model.Actor
	err := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name FROM actors WHERE id = ?`, id).
		Scan(&a.ID, &a.FirstName, &a.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns all actors ordered by last then first name.
func (r *ActorRepo) List(ctx context.Context) ([]*model.Actor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name FROM actors ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Actor
	for rows.Next() {
		a := new(model.Actor)
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies an actor's name.  Returns sql.ErrNoRows when the actor
// does not exist.
func (r *ActorRepo) Update(ctx context.Context, a *model.Actor) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE actors SET first_name = ?, last_name = ? WHERE id = ?`,
		a.FirstName, a.LastName, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an actor; play_actors rows cascade.
func (r *ActorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM actors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
