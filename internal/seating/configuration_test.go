package seating

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-seating/internal/models"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
)

var testWindow = models.ExamWindow{Start: "09:00 AM", End: "12:00 PM"}

func TestNewConfigurationDefaultNames(t *testing.T) {
	cfg, err := NewConfiguration(3, 5, 6, testWindow)
	require.NoError(t, err)
	assert.Equal(t, []string{"Room 1", "Room 2", "Room 3"}, cfg.RoomNames)
	assert.Equal(t, 90, cfg.Capacity())
	assert.Equal(t, 30, cfg.SeatsPerRoom())
}

func TestNewConfigurationRejectsNonPositiveDimensions(t *testing.T) {
	cases := []struct {
		name                  string
		rooms, rows, columns int
	}{
		{"zero rooms", 0, 5, 6},
		{"zero rows", 2, 0, 6},
		{"zero columns", 2, 5, 0},
		{"negative rows", 2, -1, 6},
		{"product wraps int", 1, math.MaxInt / 2, math.MaxInt / 2},
		{"over seat limit", 2, 500, 101},
		{"single huge room", MaxSeats + 1, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfiguration(tc.rooms, tc.rows, tc.columns, testWindow)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrConfiguration))
		})
	}
}

func TestRenameReplacesSingleEntry(t *testing.T) {
	cfg, err := NewConfiguration(3, 1, 1, testWindow)
	require.NoError(t, err)

	renamed, err := Rename(cfg, 1, "  Hall B ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Room 1", "Hall B", "Room 3"}, renamed.RoomNames)
	assert.Equal(t, []string{"Room 1", "Room 2", "Room 3"}, cfg.RoomNames, "original must be untouched")

	again, err := RenameRoom(renamed, "Hall B", "Hall C")
	require.NoError(t, err)
	assert.Equal(t, "Hall C", again.RoomNames[1])
	assert.Len(t, again.RoomNames, 3)
}

func TestRenameFailures(t *testing.T) {
	cfg, err := NewConfiguration(2, 1, 1, testWindow)
	require.NoError(t, err)

	_, err = Rename(cfg, 2, "Hall")
	assert.Equal(t, appErrors.ErrConfiguration.Code, appErrors.FromError(err).Code)

	_, err = Rename(cfg, 0, "   ")
	assert.Equal(t, appErrors.ErrConfiguration.Code, appErrors.FromError(err).Code)

	_, err = Rename(cfg, 0, "Room 2")
	assert.Equal(t, appErrors.ErrConfiguration.Code, appErrors.FromError(err).Code)

	_, err = RenameRoom(cfg, "Room 9", "Hall")
	assert.Equal(t, appErrors.ErrConfiguration.Code, appErrors.FromError(err).Code)

	same, err := Rename(cfg, 0, "Room 1")
	require.NoError(t, err)
	assert.Equal(t, cfg.RoomNames, same.RoomNames)
}

func TestValidateChecksRoomNames(t *testing.T) {
	cfg := models.SeatingConfiguration{Rooms: 2, Rows: 1, Columns: 1, RoomNames: []string{"A"}}
	assert.True(t, errors.Is(Validate(cfg), appErrors.ErrConfiguration))

	cfg.RoomNames = []string{"A", "A"}
	assert.True(t, errors.Is(Validate(cfg), appErrors.ErrConfiguration))

	cfg.RoomNames = []string{"A", "B"}
	assert.NoError(t, Validate(cfg))
}

func TestNewConfigurationAcceptsSeatLimit(t *testing.T) {
	cfg, err := NewConfiguration(10, 100, 100, testWindow)
	require.NoError(t, err)
	assert.Equal(t, MaxSeats, cfg.Capacity())
}

func TestCapacitySaturatesInsteadOfWrapping(t *testing.T) {
	cfg := models.SeatingConfiguration{Rooms: 1, Rows: math.MaxInt / 2, Columns: math.MaxInt / 2}
	assert.Equal(t, math.MaxInt, cfg.Capacity())
	assert.Equal(t, 0, models.SeatingConfiguration{Rooms: 2, Rows: -1, Columns: 3}.Capacity())
}
