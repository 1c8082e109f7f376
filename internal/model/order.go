package model

import "time"

// Order groups the tickets a user bought in one purchase.  Orders carry no
// state machine; deleting an order cascades to its tickets and frees the
// seats.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – user who placed the order.
//	CreatedAt – purchase timestamp; listings are ordered by it descending.
type Order struct {
	ID        uint64    // orders.id
	UserID    uint64    // orders.user_id
	CreatedAt time.Time // orders.created_at
}
