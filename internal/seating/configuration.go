package seating

import (
	"fmt"
	"strings"

	"github.com/noah-isme/exam-seating/internal/models"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
)

// NewConfiguration builds a configuration with default room names
// "Room 1".."Room N".
func NewConfiguration(rooms, rows, columns int, window models.ExamWindow) (models.SeatingConfiguration, error) {
	if err := validateDimensions(rooms, rows, columns); err != nil {
		return models.SeatingConfiguration{}, err
	}
	names := make([]string, rooms)
	for i := range names {
		names[i] = models.DefaultRoomName(i)
	}
	return models.SeatingConfiguration{
		Rooms:     rooms,
		Rows:      rows,
		Columns:   columns,
		RoomNames: names,
		Window:    window,
	}, nil
}

// Rename returns a copy of cfg with the room at index relabelled.
func Rename(cfg models.SeatingConfiguration, index int, name string) (models.SeatingConfiguration, error) {
	if index < 0 || index >= len(cfg.RoomNames) {
		return cfg, appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("room index %d out of range (1-%d)", index+1, len(cfg.RoomNames)))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return cfg, appErrors.Clone(appErrors.ErrConfiguration, "room name must not be blank")
	}
	for i, existing := range cfg.RoomNames {
		if i != index && existing == name {
			return cfg, appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("room name %q already used", name))
		}
	}
	names := make([]string, len(cfg.RoomNames))
	copy(names, cfg.RoomNames)
	names[index] = name
	cfg.RoomNames = names
	return cfg, nil
}

// RenameRoom relabels the room currently called current.
func RenameRoom(cfg models.SeatingConfiguration, current, name string) (models.SeatingConfiguration, error) {
	index := RoomIndex(cfg.RoomNames, current)
	if index < 0 {
		return cfg, appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("room %q not found", current))
	}
	return Rename(cfg, index, name)
}

// RoomIndex returns the position of name in roomNames or -1.
func RoomIndex(roomNames []string, name string) int {
	for i, candidate := range roomNames {
		if candidate == name {
			return i
		}
	}
	return -1
}

// Validate checks dimensions, room name count and label uniqueness.
func Validate(cfg models.SeatingConfiguration) error {
	if err := validateDimensions(cfg.Rooms, cfg.Rows, cfg.Columns); err != nil {
		return err
	}
	if len(cfg.RoomNames) != cfg.Rooms {
		return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("expected %d room names, got %d", cfg.Rooms, len(cfg.RoomNames)))
	}
	seen := make(map[string]struct{}, len(cfg.RoomNames))
	for _, name := range cfg.RoomNames {
		if strings.TrimSpace(name) == "" {
			return appErrors.Clone(appErrors.ErrConfiguration, "room name must not be blank")
		}
		if _, dup := seen[name]; dup {
			return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("room name %q already used", name))
		}
		seen[name] = struct{}{}
	}
	return nil
}

// MaxSeats bounds the number of grid cells a single configuration may hold.
const MaxSeats = 100_000

func validateDimensions(rooms, rows, columns int) error {
	switch {
	case rooms <= 0:
		return appErrors.Clone(appErrors.ErrConfiguration, "number of rooms must be at least 1")
	case rows <= 0:
		return appErrors.Clone(appErrors.ErrConfiguration, "rows per room must be at least 1")
	case columns <= 0:
		return appErrors.Clone(appErrors.ErrConfiguration, "columns per room must be at least 1")
	}
	// Checked by division so the product is never formed while out of range.
	if rows > MaxSeats/columns || rooms > MaxSeats/(rows*columns) {
		return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("%d rooms x %d rows x %d columns exceeds the limit of %d seats", rooms, rows, columns, MaxSeats))
	}
	return nil
}
