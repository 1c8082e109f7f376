package model

import "time"

// Play is a stage production that can be scheduled in halls via
// performances.  Genres and actors are many-to-many associations stored in
// join tables and loaded by the repository when needed.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – play title; listings are ordered by it.
//	Description – free-form synopsis.
//	DurationMin – running time in minutes.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Play struct {
	ID          uint64    // plays.id
	Title       string    // plays.title
	Description string    // plays.description
	DurationMin uint32    // plays.duration_min
	CreatedAt   time.Time // plays.created_at
	UpdatedAt   time.Time // plays.updated_at
}
