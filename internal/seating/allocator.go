package seating

import (
	"fmt"

	"github.com/noah-isme/exam-seating/internal/models"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
)

// Allocate seats roster in fill order: rooms, then rows, then columns. The
// cursor is shared across rooms, so occupied seats form one contiguous prefix
// of the fill order. An empty roster yields an all-empty grid.
func Allocate(roster []string, cfg models.SeatingConfiguration) (models.SeatingGrid, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if capacity := cfg.Capacity(); len(roster) > capacity {
		return nil, appErrors.Clone(appErrors.ErrCapacity, fmt.Sprintf("%d students for %d seats (%d rooms x %d rows x %d columns)", len(roster), capacity, cfg.Rooms, cfg.Rows, cfg.Columns))
	}

	cursor := 0
	grid := make(models.SeatingGrid, cfg.Rooms)
	for room := range grid {
		seats := make(models.RoomSeats, cfg.Rows)
		for row := range seats {
			line := make([]models.Seat, cfg.Columns)
			for col := range line {
				if cursor < len(roster) {
					line[col] = models.OccupiedBy(roster[cursor])
					cursor++
				}
			}
			seats[row] = line
		}
		grid[room] = seats
	}
	return grid, nil
}
