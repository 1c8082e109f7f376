package model

import "time"

// Performance is a single scheduled showing of a play in a theatre hall at a
// given time.  Tickets reference performances; seat availability for a
// performance is derived from the hall grid minus sold tickets.
//
// Fields:
//
//	ID        – primary key identifier.
//	PlayID    – play being shown.
//	HallID    – hall where the showing takes place.
//	ShowTime  – when the showing starts; must be in the future at creation.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Performance struct {
	ID        uint64    // performances.id
	PlayID    uint64    // performances.play_id
	HallID    uint64    // performances.hall_id
	ShowTime  time.Time // performances.show_time
	CreatedAt time.Time // performances.created_at
	UpdatedAt time.Time // performances.updated_at
}
