package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stagebook/stagebook/internal/model"
)

// ErrOrderNotFound is returned when an order lookup fails.
var ErrOrderNotFound = errors.New("order not found")

// SeatBoundsError reports a requested seat coordinate outside the hall
// grid.  Field is "row" or "seat"; Max is the upper bound of the valid
// range for that coordinate in the relevant hall.
type SeatBoundsError struct {
	Field string
	Max   uint32
}

func (e *SeatBoundsError) Error() string {
	return fmt.Sprintf("%s number must be in available range: (1, %d)", e.Field, e.Max)
}

// SeatTakenError reports a seat that is already booked for a performance.
type SeatTakenError struct {
	PerformanceID uint64
	Row           uint32
	Seat          uint32
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat (row %d, seat %d) is already booked for performance %d",
		e.Row, e.Seat, e.PerformanceID)
}

// ValidateSeat checks that (row, seat) lies inside the hall grid.  Both
// coordinates are 1-based.  It returns a *SeatBoundsError naming the
// offending coordinate, or nil when the seat is within bounds.  Booking
// state is not consulted here; an out-of-bounds seat is rejected no matter
// what is already sold.
func ValidateSeat(row, seat uint32, hall *model.TheatreHall) error {
	if row < 1 || row > hall.Rows {
		return &SeatBoundsError{Field: "row", Max: hall.Rows}
	}
	if seat < 1 || seat > hall.SeatsInRow {
		return &SeatBoundsError{Field: "seat", Max: hall.SeatsInRow}
	}
	return nil
}

// OrderRepo provides persistence for orders and their tickets.  The booking
// flow runs in a single transaction driven by the handler: create the order,
// validate and insert each ticket, commit.  The unique key on
// (performance_id, row_no, seat_no) is what actually prevents double
// booking under concurrency; a duplicate-key error from a racing insert is
// surfaced as *SeatTakenError.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so handlers can open the booking
// transaction.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// CreateTx inserts an order row within an existing transaction and returns
// it with ID and CreatedAt populated.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID uint64) (*model.Order, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO orders (user_id) VALUES (?)`, userID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	o := &model.Order{ID: uint64(id), UserID: userID}
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM orders WHERE id = ?`, o.ID).
		Scan(&o.CreatedAt)
	return o, err
}

// InsertTicketTx inserts one ticket within an existing transaction.  A
// duplicate-key violation on uq_ticket means the seat was booked by this or
// a concurrent request and is returned as *SeatTakenError.
func (r *OrderRepo) InsertTicketTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tickets (order_id, performance_id, row_no, seat_no) VALUES (?, ?, ?, ?)`,
		t.OrderID, t.PerformanceID, t.Row, t.Seat)
	if err != nil {
		if isDuplicateKey(err) {
			return &SeatTakenError{PerformanceID: t.PerformanceID, Row: t.Row, Seat: t.Seat}
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// OrderTicketRow is one ticket inside an order detail, joined with its
// performance for display.
type OrderTicketRow struct {
	ID            uint64 `json:"id"`
	PerformanceID uint64 `json:"performance_id"`
	PlayTitle     string `json:"play_title"`
	HallName      string `json:"hall_name"`
	ShowTime      string `json:"show_time"`
	Row           uint32 `json:"row"`
	Seat          uint32 `json:"seat"`
}

// OrderDetail is an order with its tickets expanded.  Returned by ListByUser
// and GetByIDForUser.
type OrderDetail struct {
	ID        uint64           `json:"id"`
	CreatedAt string           `json:"created_at"`
	Tickets   []OrderTicketRow `json:"tickets"`
}

// ListByUser returns all orders for the given user, newest first, with
// tickets populated.  When no orders exist an empty slice is returned.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, DATE_FORMAT(created_at, '%Y-%m-%d %T')
		 FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]OrderDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d OrderDetail
		var createdStr string
		if err := rows.Scan(&d.ID, &createdStr); err != nil {
			return nil, err
		}
		d.CreatedAt = toRFC3339(createdStr)
		d.Tickets = []OrderTicketRow{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	// Load tickets for all orders in one query.
	ids := make([]any, 0, len(details))
	marks := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		marks = append(marks, "?")
	}
	ticketSQL := `SELECT t.order_id, t.id, t.performance_id, p.title, h.name,
	                     DATE_FORMAT(pf.show_time, '%Y-%m-%d %T'), t.row_no, t.seat_no
	              FROM tickets t
	              JOIN performances pf  ON pf.id = t.performance_id
	              JOIN plays p          ON p.id = pf.play_id
	              JOIN theatre_halls h  ON h.id = pf.hall_id
	              WHERE t.order_id IN (` + strings.Join(marks, ",") + `)
	              ORDER BY t.order_id, t.row_no, t.seat_no`
	trows, err := r.db.QueryContext(ctx, ticketSQL, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var orderID uint64
		var t OrderTicketRow
		var showStr string
		if err := trows.Scan(&orderID, &t.ID, &t.PerformanceID, &t.PlayTitle, &t.HallName,
			&showStr, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		t.ShowTime = toRFC3339(showStr)
		if idx, ok := index[orderID]; ok {
			details[idx].Tickets = append(details[idx].Tickets, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetByIDForUser returns one order for the given user with tickets
// populated.  Ownership is enforced in the query, so a foreign order reads
// as sql.ErrNoRows.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, orderID, userID uint64) (*OrderDetail, error) {
	var d OrderDetail
	var createdStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, DATE_FORMAT(created_at, '%Y-%m-%d %T')
		 FROM orders WHERE id = ? AND user_id = ?`, orderID, userID).
		Scan(&d.ID, &createdStr)
	if err != nil {
		return nil, err
	}
	d.CreatedAt = toRFC3339(createdStr)
	d.Tickets = []OrderTicketRow{}

	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.performance_id, p.title, h.name,
		        DATE_FORMAT(pf.show_time, '%Y-%m-%d %T'), t.row_no, t.seat_no
		 FROM tickets t
		 JOIN performances pf  ON pf.id = t.performance_id
		 JOIN plays p          ON p.id = pf.play_id
		 JOIN theatre_halls h  ON h.id = pf.hall_id
		 WHERE t.order_id = ?
		 ORDER BY t.row_no, t.seat_no`, d.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t OrderTicketRow
		var showStr string
		if err := rows.Scan(&t.ID, &t.PerformanceID, &t.PlayTitle, &t.HallName,
			&showStr, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		t.ShowTime = toRFC3339(showStr)
		d.Tickets = append(d.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetInfoForUserTx returns the owner and earliest show time across the
// order's tickets within a transaction.  Admins pass isAdmin=true to skip
// the ownership check.  It returns sql.ErrNoRows when the order does not
// exist and ErrForbidden when it belongs to a different user.  An order with
// no tickets reports a zero time.
func (r *OrderRepo) GetInfoForUserTx(ctx context.Context, tx *sql.Tx, orderID, userID uint64, isAdmin bool) (time.Time, error) {
	var ownerID uint64
	if err := tx.QueryRowContext(ctx,
		`SELECT user_id FROM orders WHERE id = ?`, orderID).Scan(&ownerID); err != nil {
		return time.Time{}, err
	}
	if !isAdmin && ownerID != userID {
		return time.Time{}, ErrForbidden
	}
	var earliest sql.NullTime
	err := tx.QueryRowContext(ctx,
		`SELECT MIN(pf.show_time)
		 FROM tickets t
		 JOIN performances pf ON pf.id = t.performance_id
		 WHERE t.order_id = ?`, orderID).Scan(&earliest)
	if err != nil {
		return time.Time{}, err
	}
	if !earliest.Valid {
		return time.Time{}, nil
	}
	return earliest.Time.UTC(), nil
}

// DeleteTx removes an order within a transaction; tickets cascade.
func (r *OrderRepo) DeleteTx(ctx context.Context, tx *sql.Tx, orderID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID)
	return err
}
