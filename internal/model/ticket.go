package model

// Ticket reserves one seat for one performance.  The database enforces a
// unique key on (performance_id, row_no, seat_no) so that two concurrent
// bookings of the same seat cannot both succeed; application-level bounds
// checks only produce friendlier messages.
//
// Fields:
//
//	ID            – primary key identifier.
//	OrderID       – order the ticket belongs to.
//	PerformanceID – performance the seat is reserved for.
//	Row           – 1-based row number, within the hall's Rows.
//	Seat          – 1-based seat number, within the hall's SeatsInRow.
type Ticket struct {
	ID            uint64 // tickets.id
	OrderID       uint64 // tickets.order_id
	PerformanceID uint64 // tickets.performance_id
	Row           uint32 // tickets.row_no
	Seat          uint32 // tickets.seat_no
}
