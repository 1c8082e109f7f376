package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPerformancesRejectsBadDate(t *testing.T) {
	h := NewPublicHandler(nil, nil, nil, nil, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/performances?date=31-12-2026", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.ListPerformances(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "YYYY-MM-DD")
}

func TestGetPlayRejectsBadID(t *testing.T) {
	h := NewPublicHandler(nil, nil, nil, nil, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("zero")

	require.NoError(t, h.GetPlay(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
