package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/exam-seating/internal/models"
)

// RoomRename relabels one room. Index is 1-based, matching "Room N".
type RoomRename struct {
	Index int    `json:"index" validate:"min=1"`
	Name  string `json:"name" validate:"required"`
}

// ParseRoomRename parses the "N=Name" form used by multipart uploads and the CLI.
func ParseRoomRename(raw string) (RoomRename, error) {
	idx, name, ok := strings.Cut(raw, "=")
	if !ok {
		return RoomRename{}, fmt.Errorf("rename %q must look like N=Name", raw)
	}
	index, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil {
		return RoomRename{}, fmt.Errorf("rename %q: room number must be an integer", raw)
	}
	return RoomRename{Index: index, Name: strings.TrimSpace(name)}, nil
}

// SeatingRequest carries every input of one seating run. Omitted dimensions
// and times fall back to server defaults; explicit non-positive dimensions are
// rejected as a configuration error.
type SeatingRequest struct {
	Students  []string     `json:"students" validate:"dive,required"`
	Proctors  []string     `json:"proctors" validate:"dive,required"`
	Rooms     *int         `json:"rooms,omitempty"`
	Rows      *int         `json:"rows,omitempty"`
	Columns   *int         `json:"columns,omitempty"`
	Renames   []RoomRename `json:"renames,omitempty" validate:"omitempty,dive"`
	StartTime string       `json:"startTime,omitempty"`
	EndTime   string       `json:"endTime,omitempty"`
}

// SeatSearchRequest looks up one roll number in the plan built from the
// embedded request. An empty roll number means no search.
type SeatSearchRequest struct {
	SeatingRequest
	RollNumber string `json:"rollNumber"`
}

// ExportJobRequest queues an asynchronous export of the plan.
type ExportJobRequest struct {
	SeatingRequest
	Format models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// RoomView is one room as rendered to clients.
type RoomView struct {
	Index    int               `json:"index"`
	Name     string            `json:"name"`
	Proctor  string            `json:"proctor"`
	Window   models.ExamWindow `json:"window"`
	ExamTime string            `json:"examTime"`
	Columns  []string          `json:"columns"`
	Seats    models.RoomSeats  `json:"seats"`
	Occupied int               `json:"occupied"`
}

// SeatingPlanResponse is the plan payload. Rooms holds either every room or
// the single room selected through the room view.
type SeatingPlanResponse struct {
	PlanKey    string     `json:"planKey"`
	Capacity   int        `json:"capacity"`
	Students   int        `json:"students"`
	EmptySeats int        `json:"emptySeats"`
	Cached     bool       `json:"cached"`
	Rooms      []RoomView `json:"rooms"`
}

// SeatMatch reports where a roll number sits. Row and Column are 0-indexed;
// RowNumber and Seat are the 1-based labels shown to people.
type SeatMatch struct {
	RoomIndex int    `json:"roomIndex"`
	Room      string `json:"room"`
	Proctor   string `json:"proctor"`
	Row       int    `json:"row"`
	Column    int    `json:"column"`
	RowNumber int    `json:"rowNumber"`
	Seat      string `json:"seat"`
}

// SeatSearchResponse returns the match, if any, with the plan. A hit narrows
// the plan to the matched room.
type SeatSearchResponse struct {
	RollNumber string              `json:"rollNumber"`
	Searched   bool                `json:"searched"`
	Found      bool                `json:"found"`
	Match      *SeatMatch          `json:"match,omitempty"`
	Plan       SeatingPlanResponse `json:"plan"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	PlanKey  string              `json:"planKey"`
	Format   models.ExportFormat `json:"format"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Format    models.ExportFormat `json:"format"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}

// SeatingRunQuery pages the audit trail.
type SeatingRunQuery struct {
	Limit int `form:"limit"`
}
