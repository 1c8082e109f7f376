package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestGetUserID(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"float64 from jwt", float64(42), 42, true},
		{"uint64", uint64(7), 7, true},
		{"int", 3, 3, true},
		{"string", "12", 12, true},
		{"bad string", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := testCtx("/")
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, err := getUserID(c)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsAdmin(t *testing.T) {
	c := testCtx("/")
	assert.False(t, isAdmin(c))
	c.Set("role", "CUSTOMER")
	assert.False(t, isAdmin(c))
	c.Set("role", "ADMIN")
	assert.True(t, isAdmin(c))
}

func TestPathID(t *testing.T) {
	c := testCtx("/")
	c.SetParamNames("id")

	c.SetParamValues("15")
	id, ok := pathID(c)
	assert.True(t, ok)
	assert.Equal(t, uint64(15), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		c.SetParamValues(bad)
		_, ok := pathID(c)
		assert.False(t, ok, "value %q", bad)
	}
}

func TestParseIDList(t *testing.T) {
	assert.Nil(t, parseIDList(""))
	assert.Nil(t, parseIDList("  "))
	assert.Equal(t, []uint64{1, 2, 3}, parseIDList("1,2,3"))
	assert.Equal(t, []uint64{4, 9}, parseIDList(" 4 , 9 "))
	// malformed and zero entries are skipped
	assert.Equal(t, []uint64{5}, parseIDList("x,0,5,"))
}

func TestPageParams(t *testing.T) {
	c := testCtx("/?page=3&page_size=50")
	page, size := pageParams(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)

	c = testCtx("/")
	page, size = pageParams(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	c = testCtx("/?page=-2&page_size=9999")
	page, size = pageParams(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 100, size)
}
