package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stagebook/stagebook/internal/model"
	"github.com/stagebook/stagebook/internal/monitoring"
	"github.com/stagebook/stagebook/internal/queue"
	"github.com/stagebook/stagebook/internal/repository"
	queue_publisher "github.com/stagebook/stagebook/internal/service"
)

// OrderHandler serves the authenticated booking endpoints.
type OrderHandler struct {
	Orders       *repository.OrderRepo
	Performances *repository.PerformanceRepo
}

func NewOrderHandler(o *repository.OrderRepo, p *repository.PerformanceRepo) *OrderHandler {
	return &OrderHandler{Orders: o, Performances: p}
}

type ticketReq struct {
	PerformanceID uint64 `json:"performance_id"`
	Row           uint32 `json:"row"`
	Seat          uint32 `json:"seat"`
}

type createOrderReq struct {
	Tickets []ticketReq `json:"tickets"`
}

// Create handles POST /api/v1/orders.  The whole order is booked in one
// transaction: bounds are checked against the hall grid, then each ticket is
// inserted.  A duplicate-key error from the unique seat index aborts the
// order with 409; a concurrent request for the same seat loses the race the
// same way.
func (h *OrderHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Tickets) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tickets must not be empty"})
	}

	ctx := c.Request().Context()
	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		monitoring.BookingsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin booking failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := h.Orders.CreateTx(ctx, tx, userID)
	if err != nil {
		monitoring.BookingsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}

	// Halls are cached per performance so multi-ticket orders for the same
	// showing hit the database once.
	halls := make(map[uint64]*model.TheatreHall)
	for _, t := range req.Tickets {
		hall, ok := halls[t.PerformanceID]
		if !ok {
			var err error
			hall, _, err = h.Performances.GetForBookingTx(ctx, tx, t.PerformanceID)
			if err != nil {
				if errors.Is(err, repository.ErrPerformanceNotFound) {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown performance id"})
				}
				monitoring.BookingsTotal.WithLabelValues("error").Inc()
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load performance failed"})
			}
			halls[t.PerformanceID] = hall
		}
		if err := repository.ValidateSeat(t.Row, t.Seat, hall); err != nil {
			monitoring.BookingsTotal.WithLabelValues("out_of_bounds").Inc()
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		ticket := &model.Ticket{
			OrderID:       order.ID,
			PerformanceID: t.PerformanceID,
			Row:           t.Row,
			Seat:          t.Seat,
		}
		if err := h.Orders.InsertTicketTx(ctx, tx, ticket); err != nil {
			var taken *repository.SeatTakenError
			if errors.As(err, &taken) {
				monitoring.BookingsTotal.WithLabelValues("seat_taken").Inc()
				return c.JSON(http.StatusConflict, echo.Map{"error": taken.Error()})
			}
			monitoring.BookingsTotal.WithLabelValues("error").Inc()
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "book ticket failed"})
		}
	}

	if err := tx.Commit(); err != nil {
		monitoring.BookingsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit booking failed"})
	}
	committed = true
	monitoring.BookingsTotal.WithLabelValues("confirmed").Inc()
	monitoring.TicketsSold.Add(float64(len(req.Tickets)))

	detail, err := h.Orders.GetByIDForUser(ctx, order.ID, userID)
	if err != nil {
		// Booked but could not read back; report the order id at least.
		return c.JSON(http.StatusCreated, echo.Map{"id": order.ID})
	}

	h.publishConfirmed(order, userID, detail)

	return c.JSON(http.StatusCreated, detail)
}

// publishConfirmed emits the order.confirmed event after commit.  Publish
// failures are logged inside the publisher and never fail the request.
func (h *OrderHandler) publishConfirmed(order *model.Order, userID uint64, detail *repository.OrderDetail) {
	ev := queue.OrderConfirmedEvent{
		OrderID:     order.ID,
		UserID:      userID,
		ConfirmedAt: order.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, t := range detail.Tickets {
		ev.Tickets = append(ev.Tickets, queue.TicketLine{
			PerformanceID: t.PerformanceID,
			PlayTitle:     t.PlayTitle,
			HallName:      t.HallName,
			ShowTime:      t.ShowTime,
			Row:           t.Row,
			Seat:          t.Seat,
		})
	}
	pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishOrderConfirmed(pubCtx, ev)
}

// List handles GET /api/v1/orders, returning the caller's own orders.
func (h *OrderHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Orders.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list orders failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// Get handles GET /api/v1/orders/:id.  A foreign order reads as 404 so order
// ids are not probeable.
func (h *OrderHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Orders.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get order failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Delete handles DELETE /api/v1/orders/:id.  Customers can cancel their own
// orders until the earliest show in the order has started; admins can cancel
// any order at any time.
func (h *OrderHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	admin := isAdmin(c)

	ctx := c.Request().Context()
	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin cancel failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	earliest, err := h.Orders.GetInfoForUserTx(ctx, tx, id, userID, admin)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel order failed"})
		}
	}
	if !admin && !earliest.IsZero() && !earliest.After(time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order has a performance that already started"})
	}
	if err := h.Orders.DeleteTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel order failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel order failed"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
