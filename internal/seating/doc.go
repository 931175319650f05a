// Package seating seats a roster of students across rooms, pairs rooms with
// proctors, locates students and flattens the result for export.
//
// Seats are filled room by room, row by row, column by column from the front
// of the roster with a single cursor, so the seat order always matches the
// roster order and every empty seat follows every occupied one. Allocation is
// deterministic; only the proctor pairing draws on randomness.
//
// Functions here are pure and do no I/O. Errors are *errors.Error values from
// pkg/errors (ErrConfiguration, ErrCapacity, ErrInsufficientProctors) and are
// terminal: no partial plan is ever returned alongside one.
package seating
