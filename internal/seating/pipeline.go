package seating

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"

	"github.com/noah-isme/exam-seating/internal/models"
)

// Compute runs one full seating pass: validate, allocate, assign proctors.
// Capacity is checked before the proctor pool. On any error the returned plan
// is nil.
func Compute(roster, pool []string, cfg models.SeatingConfiguration, assigner *ProctorAssigner) (*models.SeatingPlan, error) {
	if assigner == nil {
		assigner = NewProctorAssigner(nil)
	}
	grid, err := Allocate(roster, cfg)
	if err != nil {
		return nil, err
	}
	assignment, err := assigner.Assign(pool, cfg.RoomNames)
	if err != nil {
		return nil, err
	}
	return &models.SeatingPlan{
		Key:           Fingerprint(roster, pool, cfg),
		Configuration: cfg,
		Grid:          grid,
		Assignment:    assignment,
	}, nil
}

// Fingerprint is a SHA-256 digest over every input of a run. Identical inputs
// give identical fingerprints; order of roster and pool matters.
func Fingerprint(roster, pool []string, cfg models.SeatingConfiguration) string {
	h := sha256.New()
	writeInts(h, cfg.Rooms, cfg.Rows, cfg.Columns)
	writeStrings(h, cfg.RoomNames)
	writeStrings(h, []string{cfg.Window.Start, cfg.Window.End})
	writeStrings(h, roster)
	writeStrings(h, pool)
	return hex.EncodeToString(h.Sum(nil))
}

// writeStrings length-prefixes every value so ["ab"] and ["a","b"] differ.
func writeStrings(h hash.Hash, values []string) {
	writeInts(h, len(values))
	for _, v := range values {
		writeInts(h, len(v))
		_, _ = h.Write([]byte(v))
	}
}

func writeInts(h hash.Hash, values ...int) {
	var buf [8]byte
	for _, v := range values {
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}
}
