// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketLine is one booked seat inside an OrderConfirmedEvent.
type TicketLine struct {
	PerformanceID uint64 `json:"performance_id"`
	PlayTitle     string `json:"play_title"`
	HallName      string `json:"hall_name"`
	ShowTime      string `json:"show_time"`
	Row           uint32 `json:"row"`
	Seat          uint32 `json:"seat"`
}

// OrderConfirmedEvent is published after an order commits.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type OrderConfirmedEvent struct {
	OrderID     uint64       `json:"order_id"`
	UserID      uint64       `json:"user_id"`
	Tickets     []TicketLine `json:"tickets"`
	ConfirmedAt string       `json:"confirmed_at"`
}
