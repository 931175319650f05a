package seating

import "github.com/noah-isme/exam-seating/internal/models"

// Find returns the first occupied seat whose roll number equals target
// exactly. Duplicated roll numbers only ever report their first seat. A miss
// is reported through the bool, never as an error.
func Find(grid models.SeatingGrid, target string, roomNames []string) (models.SeatLocation, bool) {
	for roomIdx, room := range grid {
		for rowIdx, row := range room {
			for colIdx, seat := range row {
				if seat.Occupied && seat.RollNumber == target {
					return models.SeatLocation{
						RoomIndex: roomIdx,
						Room:      roomLabel(roomNames, roomIdx),
						Row:       rowIdx,
						Column:    colIdx,
					}, true
				}
			}
		}
	}
	return models.SeatLocation{}, false
}

func roomLabel(roomNames []string, index int) string {
	if index < len(roomNames) && roomNames[index] != "" {
		return roomNames[index]
	}
	return models.DefaultRoomName(index)
}
