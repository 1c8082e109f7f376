package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagebook/stagebook/internal/model"
)

func TestValidateSeat(t *testing.T) {
	hall := &model.TheatreHall{ID: 1, Name: "Main", Rows: 10, SeatsInRow: 15}

	cases := []struct {
		name    string
		row     uint32
		seat    uint32
		wantErr string
	}{
		{"first seat", 1, 1, ""},
		{"last seat", 10, 15, ""},
		{"middle", 5, 8, ""},
		{"row zero", 0, 5, "row number must be in available range: (1, 10)"},
		{"row too big", 11, 5, "row number must be in available range: (1, 10)"},
		{"seat zero", 5, 0, "seat number must be in available range: (1, 15)"},
		{"seat too big", 5, 16, "seat number must be in available range: (1, 15)"},
		{"both out, row reported first", 11, 16, "row number must be in available range: (1, 10)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSeat(tc.row, tc.seat, hall)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantErr, err.Error())

			var bounds *SeatBoundsError
			require.ErrorAs(t, err, &bounds)
		})
	}
}

func TestValidateSeatSingleSeatHall(t *testing.T) {
	hall := &model.TheatreHall{Rows: 1, SeatsInRow: 1}
	assert.NoError(t, ValidateSeat(1, 1, hall))
	assert.Error(t, ValidateSeat(2, 1, hall))
	assert.Error(t, ValidateSeat(1, 2, hall))
}

func TestSeatTakenErrorMessage(t *testing.T) {
	err := &SeatTakenError{PerformanceID: 7, Row: 3, Seat: 4}
	assert.Equal(t, "seat (row 3, seat 4) is already booked for performance 7", err.Error())
}
