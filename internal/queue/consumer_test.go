package queue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLine(t *testing.T) {
	ev := OrderConfirmedEvent{
		OrderID:     12,
		UserID:      3,
		ConfirmedAt: "2026-03-01T19:00:00Z",
		Tickets: []TicketLine{
			{PerformanceID: 5, PlayTitle: "Hamlet", HallName: "Main", ShowTime: "2026-03-02T19:30:00Z", Row: 4, Seat: 7},
			{PerformanceID: 5, PlayTitle: "Hamlet", HallName: "Main", ShowTime: "2026-03-02T19:30:00Z", Row: 4, Seat: 8},
		},
	}
	line := formatLine(ev)
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "order_id=12")
	assert.Contains(t, line, "user_id=3")
	assert.Contains(t, line, "tickets=2")
	assert.Contains(t, line, "Hamlet@2026-03-02T19:30:00Z r4 s7")
}

func TestFormatLineEmptyOrder(t *testing.T) {
	line := formatLine(OrderConfirmedEvent{OrderID: 1, UserID: 2, ConfirmedAt: "now"})
	assert.Contains(t, line, "tickets=0")
	assert.Contains(t, line, "seats=[]")
}
