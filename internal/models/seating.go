package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// EmptySeatLabel is how an unoccupied seat is rendered in exports and views.
const EmptySeatLabel = "Empty"

// ExamWindow is the free-text time range shown next to every room.
type ExamWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// String renders "start - end".
func (w ExamWindow) String() string {
	return fmt.Sprintf("%s - %s", w.Start, w.End)
}

// SeatingConfiguration describes the room grid for one run.
type SeatingConfiguration struct {
	Rooms     int        `json:"rooms"`
	Rows      int        `json:"rows"`
	Columns   int        `json:"columns"`
	RoomNames []string   `json:"roomNames"`
	Window    ExamWindow `json:"window"`
}

// Capacity is the total number of seats across all rooms. It saturates at
// math.MaxInt instead of wrapping and is 0 for non-positive dimensions.
func (c SeatingConfiguration) Capacity() int {
	return saturatingMul(c.Rooms, c.SeatsPerRoom())
}

// SeatsPerRoom is rows times columns, saturating like Capacity.
func (c SeatingConfiguration) SeatsPerRoom() int {
	return saturatingMul(c.Rows, c.Columns)
}

func saturatingMul(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

// Seat is one grid cell. The zero value is an empty seat; an occupied seat
// always has Occupied set, even when RollNumber is blank.
type Seat struct {
	RollNumber string
	Occupied   bool
}

// OccupiedBy returns an occupied seat for rollNumber.
func OccupiedBy(rollNumber string) Seat {
	return Seat{RollNumber: rollNumber, Occupied: true}
}

// Label returns the roll number or EmptySeatLabel.
func (s Seat) Label() string {
	if !s.Occupied {
		return EmptySeatLabel
	}
	return s.RollNumber
}

// MarshalJSON renders empty seats as null and occupied seats as their roll number.
func (s Seat) MarshalJSON() ([]byte, error) {
	if !s.Occupied {
		return []byte("null"), nil
	}
	return json.Marshal(s.RollNumber)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Seat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Seat{}
		return nil
	}
	var roll string
	if err := json.Unmarshal(data, &roll); err != nil {
		return err
	}
	*s = OccupiedBy(roll)
	return nil
}

// RoomSeats is the rows x columns grid of one room.
type RoomSeats [][]Seat

// SeatingGrid holds every room's grid, indexed by room.
type SeatingGrid []RoomSeats

// Rooms returns the number of rooms in the grid.
func (g SeatingGrid) Rooms() int {
	return len(g)
}

// SeatCount returns the total number of cells.
func (g SeatingGrid) SeatCount() int {
	total := 0
	for _, room := range g {
		for _, row := range room {
			total += len(row)
		}
	}
	return total
}

// Occupied returns the number of occupied cells.
func (g SeatingGrid) Occupied() int {
	total := 0
	for _, room := range g {
		for _, row := range room {
			for _, seat := range row {
				if seat.Occupied {
					total++
				}
			}
		}
	}
	return total
}

// Empty returns the number of empty cells.
func (g SeatingGrid) Empty() int {
	return g.SeatCount() - g.Occupied()
}

// RoomProctor pairs a room with its invigilator.
type RoomProctor struct {
	Room    string `json:"room"`
	Proctor string `json:"proctor"`
}

// RoomAssignment maps rooms to proctors, in room order.
type RoomAssignment []RoomProctor

// Proctor returns the proctor assigned to room.
func (a RoomAssignment) Proctor(room string) (string, bool) {
	for _, item := range a {
		if item.Room == room {
			return item.Proctor, true
		}
	}
	return "", false
}

// SeatLocation is where a roll number was found. Row and Column are 0-indexed.
type SeatLocation struct {
	RoomIndex int    `json:"roomIndex"`
	Room      string `json:"room"`
	Row       int    `json:"row"`
	Column    int    `json:"column"`
}

// SeatLabel is the 1-based column header used in exports, e.g. "Seat 3".
func (l SeatLocation) SeatLabel() string {
	return SeatColumnLabel(l.Column)
}

// SeatColumnLabel returns the header for the 0-indexed column.
func SeatColumnLabel(column int) string {
	return fmt.Sprintf("Seat %d", column+1)
}

// DefaultRoomName is the label for the 0-indexed room before any rename.
func DefaultRoomName(index int) string {
	return fmt.Sprintf("Room %d", index+1)
}

// ReportRow is one flattened export line: a room row and its seat labels.
type ReportRow struct {
	Room  string   `json:"room"`
	Seats []string `json:"seats"`
}

// Cells returns the row as positional cells, room name first.
func (r ReportRow) Cells() []string {
	cells := make([]string, 0, len(r.Seats)+1)
	cells = append(cells, r.Room)
	return append(cells, r.Seats...)
}

// SeatingPlan is the complete output of one run.
type SeatingPlan struct {
	Key           string               `json:"key"`
	Configuration SeatingConfiguration `json:"configuration"`
	Grid          SeatingGrid          `json:"grid"`
	Assignment    RoomAssignment       `json:"assignment"`
}
