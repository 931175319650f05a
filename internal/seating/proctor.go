package seating

import (
	"fmt"
	"math/rand"

	"github.com/noah-isme/exam-seating/internal/models"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
)

// Shuffler permutes n elements through swap. *rand.Rand implements it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// ProctorAssigner pairs rooms with randomly chosen proctors.
type ProctorAssigner struct {
	shuffler Shuffler
}

// NewProctorAssigner returns an assigner drawing on shuffler. A nil shuffler
// uses the math/rand top-level source, which is safe for concurrent use;
// a *rand.Rand is not, so callers sharing one must serialise access.
func NewProctorAssigner(shuffler Shuffler) *ProctorAssigner {
	if shuffler == nil {
		shuffler = globalShuffler{}
	}
	return &ProctorAssigner{shuffler: shuffler}
}

// Assign shuffles a copy of pool, keeps the first len(roomNames) names and
// zips them with roomNames in order. pool is left untouched.
func (a *ProctorAssigner) Assign(pool []string, roomNames []string) (models.RoomAssignment, error) {
	if len(pool) < len(roomNames) {
		return nil, appErrors.Clone(appErrors.ErrInsufficientProctors, fmt.Sprintf("%d proctors for %d rooms", len(pool), len(roomNames)))
	}

	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	a.shuffler.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assignment := make(models.RoomAssignment, len(roomNames))
	for i, room := range roomNames {
		assignment[i] = models.RoomProctor{Room: room, Proctor: shuffled[i]}
	}
	return assignment, nil
}
