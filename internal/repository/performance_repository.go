package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/stagebook/stagebook/internal/model"
)

// ErrPerformanceNotFound is returned when a performance lookup fails.
var ErrPerformanceNotFound = errors.New("performance not found")

// PerformanceRepo provides persistence for scheduled performances.
type PerformanceRepo struct {
	db *sql.DB
}

func NewPerformanceRepo(db *sql.DB) *PerformanceRepo { return &PerformanceRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *PerformanceRepo) DB() *sql.DB { return r.db }

// PerformanceFilter defines filters & pagination for listing performances.
// Date, when non-zero, restricts results to showings on that calendar day
// (UTC).  PlayID, when non-zero, restricts to one play.
type PerformanceFilter struct {
	Date     time.Time
	PlayID   uint64
	Page     int
	PageSize int
}

// PerformanceRow is a performance as returned by List, joined with play and
// hall information and the number of seats still available.
type PerformanceRow struct {
	ID               uint64 `json:"id"`
	PlayID           uint64 `json:"play_id"`
	PlayTitle        string `json:"play_title"`
	HallID           uint64 `json:"hall_id"`
	HallName         string `json:"hall_name"`
	ShowTime         string `json:"show_time"`
	Capacity         uint32 `json:"capacity"`
	TicketsAvailable uint32 `json:"tickets_available"`
}

// SeatRef identifies one seat in a hall grid.
type SeatRef struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

// PerformanceDetail extends PerformanceRow with the hall grid and the list
// of already-taken seats so clients can render a seat map.
type PerformanceDetail struct {
	PerformanceRow
	HallRows       uint32    `json:"hall_rows"`
	HallSeatsInRow uint32    `json:"hall_seats_in_row"`
	TakenSeats     []SeatRef `json:"taken_seats"`
}

// Create inserts a performance and reads the row back to populate
// timestamps.  A bad play or hall ID returns ErrBadReference.
func (r *PerformanceRepo) Create(ctx context.Context, p *model.Performance) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO performances (play_id, hall_id, show_time) VALUES (?, ?, ?)`,
		p.PlayID, p.HallID, p.ShowTime.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		if isForeignKeyMissing(err) {
			return ErrBadReference
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT id, play_id, hall_id, show_time, created_at, updated_at FROM performances WHERE id = ?`,
		p.ID).Scan(&p.ID, &p.PlayID, &p.HallID, &p.ShowTime, &p.CreatedAt, &p.UpdatedAt)
}

// Update reschedules or moves a performance.  Returns sql.ErrNoRows when it
// does not exist and ErrBadReference for a bad play or hall ID.
func (r *PerformanceRepo) Update(ctx context.Context, p *model.Performance) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE performances
		 SET play_id = ?, hall_id = ?, show_time = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.PlayID, p.HallID, p.ShowTime.UTC().Format("2006-01-02 15:04:05"), p.ID)
	if err != nil {
		if isForeignKeyMissing(err) {
			return ErrBadReference
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM performances WHERE id = ?`, p.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sql.ErrNoRows
			}
			return err
		}
	}
	return nil
}

// Delete removes a performance.  Returns ErrConflict when tickets have been
// sold for it and sql.ErrNoRows when it does not exist.
func (r *PerformanceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM performances WHERE id = ?`, id)
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

// List returns performances matching the filter ordered by show_time
// descending, plus the total count before pagination.
func (r *PerformanceRepo) List(ctx context.Context, f PerformanceFilter) ([]PerformanceRow, int64, error) {
	where := []string{}
	args := []any{}

	if !f.Date.IsZero() {
		day := f.Date.UTC().Format("2006-01-02")
		where = append(where, "DATE(pf.show_time) = ?")
		args = append(args, day)
	}
	if f.PlayID != 0 {
		where = append(where, "pf.play_id = ?")
		args = append(args, f.PlayID)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM performances pf WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.PageSize
	offset := (f.Page - 1) * f.PageSize

	dataSQL := `SELECT
			pf.id,
			pf.play_id,
			p.title,
			pf.hall_id,
			h.name,
			DATE_FORMAT(pf.show_time, '%Y-%m-%d %T'),
			h.rows_count * h.seats_in_row AS capacity,
			(SELECT COUNT(*) FROM tickets t WHERE t.performance_id = pf.id) AS sold
		FROM performances pf
		JOIN plays p         ON p.id = pf.play_id
		JOIN theatre_halls h ON h.id = pf.hall_id
		WHERE ` + cond + `
		ORDER BY pf.show_time DESC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PerformanceRow, 0, limit)
	for rows.Next() {
		var d PerformanceRow
		var sold uint32
		var showStr string
		if err := rows.Scan(&d.ID, &d.PlayID, &d.PlayTitle, &d.HallID, &d.HallName,
			&showStr, &d.Capacity, &sold); err != nil {
			return nil, 0, err
		}
		d.ShowTime = toRFC3339(showStr)
		if sold < d.Capacity {
			d.TicketsAvailable = d.Capacity - sold
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID returns one performance with hall grid and taken seats.  Returns
// ErrPerformanceNotFound when no row exists.
func (r *PerformanceRepo) GetByID(ctx context.Context, id uint64) (*PerformanceDetail, error) {
	var d PerformanceDetail
	var sold uint32
	var showStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT pf.id, pf.play_id, p.title, pf.hall_id, h.name,
		        DATE_FORMAT(pf.show_time, '%Y-%m-%d %T'),
		        h.rows_count, h.seats_in_row,
		        (SELECT COUNT(*) FROM tickets t WHERE t.performance_id = pf.id)
		 FROM performances pf
		 JOIN plays p         ON p.id = pf.play_id
		 JOIN theatre_halls h ON h.id = pf.hall_id
		 WHERE pf.id = ?`, id).
		Scan(&d.ID, &d.PlayID, &d.PlayTitle, &d.HallID, &d.HallName,
			&showStr, &d.HallRows, &d.HallSeatsInRow, &sold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPerformanceNotFound
		}
		return nil, err
	}
	d.ShowTime = toRFC3339(showStr)
	d.Capacity = d.HallRows * d.HallSeatsInRow
	if sold < d.Capacity {
		d.TicketsAvailable = d.Capacity - sold
	}

	d.TakenSeats = []SeatRef{}
	rows, err := r.db.QueryContext(ctx,
		`SELECT row_no, seat_no FROM tickets WHERE performance_id = ? ORDER BY row_no, seat_no`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s SeatRef
		if err := rows.Scan(&s.Row, &s.Seat); err != nil {
			return nil, err
		}
		d.TakenSeats = append(d.TakenSeats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetForBookingTx loads the hall grid and show time for a performance inside
// an existing transaction.  Used by the booking path so the bounds check and
// the ticket inserts observe the same snapshot.
func (r *PerformanceRepo) GetForBookingTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.TheatreHall, time.Time, error) {
	var h model.TheatreHall
	var showTime time.Time
	err := tx.QueryRowContext(ctx,
		`SELECT h.id, h.name, h.rows_count, h.seats_in_row, pf.show_time
		 FROM performances pf
		 JOIN theatre_halls h ON h.id = pf.hall_id
		 WHERE pf.id = ?`, id).
		Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsInRow, &showTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, ErrPerformanceNotFound
		}
		return nil, time.Time{}, err
	}
	return &h, showTime.UTC(), nil
}

// toRFC3339 converts a MySQL DATETIME string to RFC3339 in UTC, passing the
// input through unchanged when it does not parse.
func toRFC3339(s string) string {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return s
}
