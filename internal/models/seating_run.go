package models

import "time"

// RunOutcome records how a seating run ended.
type RunOutcome string

const (
	RunOutcomeSuccess RunOutcome = "SUCCESS"
	RunOutcomeFailed  RunOutcome = "FAILED"
)

// SeatingRun is an audit row describing one computation. It never holds
// roll numbers, proctor names or the grid.
type SeatingRun struct {
	ID              string     `db:"id" json:"id"`
	PlanKey         string     `db:"plan_key" json:"plan_key"`
	RosterSize      int        `db:"roster_size" json:"roster_size"`
	ProctorPoolSize int        `db:"proctor_pool_size" json:"proctor_pool_size"`
	Rooms           int        `db:"rooms" json:"rooms"`
	RowsPerRoom     int        `db:"rows_per_room" json:"rows_per_room"`
	ColumnsPerRoom  int        `db:"columns_per_room" json:"columns_per_room"`
	SeatsFilled     int        `db:"seats_filled" json:"seats_filled"`
	Outcome         RunOutcome `db:"outcome" json:"outcome"`
	ErrorCode       *string    `db:"error_code" json:"error_code,omitempty"`
	CreatedBy       *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
