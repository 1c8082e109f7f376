package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The validation paths below fail before any repository call, so the handler
// can run with nil repos.

func orderCreateCtx(body string, userID interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c, rec
}

func TestOrderCreateRejectsMissingIdentity(t *testing.T) {
	h := NewOrderHandler(nil, nil)
	c, rec := orderCreateCtx(`{"tickets":[{"performance_id":1,"row":1,"seat":1}]}`, nil)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderCreateRejectsEmptyTickets(t *testing.T) {
	h := NewOrderHandler(nil, nil)

	for _, body := range []string{`{}`, `{"tickets":[]}`} {
		c, rec := orderCreateCtx(body, float64(42))
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.Contains(t, rec.Body.String(), "tickets must not be empty")
	}
}

func TestOrderCreateRejectsMalformedBody(t *testing.T) {
	h := NewOrderHandler(nil, nil)
	c, rec := orderCreateCtx(`{"tickets":`, float64(42))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderDeleteRejectsBadID(t *testing.T) {
	h := NewOrderHandler(nil, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(42))
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
