package seating

import (
	"github.com/noah-isme/exam-seating/internal/models"
	"github.com/noah-isme/exam-seating/pkg/export"
)

// RoomNameHeader labels the first export column.
const RoomNameHeader = "Room Name"

// Flatten lists one row per (room, row) in fill order, seats left to right.
func Flatten(grid models.SeatingGrid, roomNames []string) []models.ReportRow {
	rows := make([]models.ReportRow, 0)
	for roomIdx, room := range grid {
		name := roomLabel(roomNames, roomIdx)
		for _, line := range room {
			seats := make([]string, len(line))
			for col, seat := range line {
				seats[col] = seat.Label()
			}
			rows = append(rows, models.ReportRow{Room: name, Seats: seats})
		}
	}
	return rows
}

// ReportHeaders returns "Room Name", "Seat 1" .. "Seat columns".
func ReportHeaders(columns int) []string {
	headers := make([]string, 0, columns+1)
	headers = append(headers, RoomNameHeader)
	for col := 0; col < columns; col++ {
		headers = append(headers, models.SeatColumnLabel(col))
	}
	return headers
}

// ReportDataset converts a plan into an export dataset. Each room becomes a
// section captioned with its name, proctor and exam window.
func ReportDataset(plan *models.SeatingPlan) export.Dataset {
	cfg := plan.Configuration
	rows := Flatten(plan.Grid, cfg.RoomNames)
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = row.Cells()
	}

	sections := make([]export.Section, 0, len(plan.Grid))
	start := 0
	for roomIdx, room := range plan.Grid {
		name := roomLabel(cfg.RoomNames, roomIdx)
		lines := []string{"Exam Time: " + cfg.Window.String()}
		if proctor, ok := plan.Assignment.Proctor(name); ok {
			lines = append([]string{"Proctor: " + proctor}, lines...)
		}
		sections = append(sections, export.Section{Caption: name, Lines: lines, Start: start, Count: len(room)})
		start += len(room)
	}

	return export.Dataset{
		Title:    "Exam Seating Arrangement",
		Subtitle: []string{"Exam Time: " + cfg.Window.String()},
		Headers:  ReportHeaders(cfg.Columns),
		Records:  records,
		Sections: sections,
	}
}
