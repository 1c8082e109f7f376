package model

import "time"

// TheatreHall describes a physical hall and its seating grid.  Seats are not
// stored individually: a hall with Rows rows and SeatsInRow seats per row
// contains every (row, seat) pair in [1..Rows] x [1..SeatsInRow].
//
// Fields:
//
//	ID         – primary key identifier.
//	Name       – human readable label for the hall.
//	Rows       – number of seating rows; must be positive.
//	SeatsInRow – number of seats per row; must be positive.
//	CreatedAt  – creation timestamp.
//	UpdatedAt  – last update timestamp.
type TheatreHall struct {
	ID         uint64    // theatre_halls.id
	Name       string    // theatre_halls.name
	Rows       uint32    // theatre_halls.rows_count
	SeatsInRow uint32    // theatre_halls.seats_in_row
	CreatedAt  time.Time // theatre_halls.created_at
	UpdatedAt  time.Time // theatre_halls.updated_at
}

// Capacity returns the total number of seats in the hall.
func (h TheatreHall) Capacity() uint32 {
	return h.Rows * h.SeatsInRow
}
