package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stagebook/stagebook/internal/model"
)

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// HallRepo provides persistence for theatre halls.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

const hallColumns = "id, name, rows_count, seats_in_row, created_at, updated_at"

// Create inserts a new hall and reads the row back so timestamps are
// populated on the passed struct.
func (r *HallRepo) Create(ctx context.Context, h *model.TheatreHall) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO theatre_halls (name, rows_count, seats_in_row) VALUES (?, ?, ?)`,
		h.Name, h.Rows, h.SeatsInRow)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT `+hallColumns+` FROM theatre_halls WHERE id = ?`, h.ID).
		Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsInRow, &h.CreatedAt, &h.UpdatedAt)
}

// GetByID retrieves a hall by its ID.  Returns ErrHallNotFound when no row
// is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.TheatreHall, error) {
	var h model.TheatreHall
	err := r.db.QueryRowContext(ctx,
		`SELECT `+hallColumns+` FROM theatre_halls WHERE id = ?`, id).
		Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsInRow, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns all halls ordered by id.
func (r *HallRepo) List(ctx context.Context) ([]*model.TheatreHall, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+hallColumns+` FROM theatre_halls ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.TheatreHall
	for rows.Next() {
		h := new(model.TheatreHall)
		if err := rows.Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsInRow, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies the hall's name and seating grid.  Returns sql.ErrNoRows
// when the hall does not exist.  Shrinking the grid under already-sold seats
// is not rechecked here; the bounds check at booking time uses current
// dimensions.
func (r *HallRepo) Update(ctx context.Context, h *model.TheatreHall) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE theatre_halls
		 SET name = ?, rows_count = ?, seats_in_row = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		h.Name, h.Rows, h.SeatsInRow, h.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a hall.  Returns ErrConflict when performances still
// reference it (FK restriction, MySQL error 1451) and sql.ErrNoRows when it
// does not exist.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM theatre_halls WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyRestrict(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
