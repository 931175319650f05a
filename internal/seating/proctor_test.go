package seating

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exam-seating/internal/models"
	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
)

// reverseShuffler reverses the slice, which is a valid permutation.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func TestAssignIsBijectionOntoRooms(t *testing.T) {
	pool := []string{"Ada", "Ben", "Cy", "Dee", "Eve"}
	rooms := []string{"Room 1", "Hall B", "Room 3"}
	assigner := NewProctorAssigner(rand.New(rand.NewSource(7)))

	for i := 0; i < 50; i++ {
		assignment, err := assigner.Assign(pool, rooms)
		require.NoError(t, err)
		require.Len(t, assignment, len(rooms))

		used := map[string]bool{}
		for idx, pair := range assignment {
			assert.Equal(t, rooms[idx], pair.Room)
			assert.Contains(t, pool, pair.Proctor)
			assert.False(t, used[pair.Proctor], "proctor %s repeated", pair.Proctor)
			used[pair.Proctor] = true
		}
	}
}

func TestAssignDoesNotMutatePool(t *testing.T) {
	pool := []string{"Ada", "Ben", "Cy"}
	_, err := NewProctorAssigner(reverseShuffler{}).Assign(pool, []string{"Room 1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Ben", "Cy"}, pool)
}

func TestAssignUsesInjectedSource(t *testing.T) {
	assignment, err := NewProctorAssigner(reverseShuffler{}).Assign([]string{"Ada", "Ben", "Cy"}, []string{"Room 1", "Room 2"})
	require.NoError(t, err)
	assert.Equal(t, models.RoomAssignment{
		{Room: "Room 1", Proctor: "Cy"},
		{Room: "Room 2", Proctor: "Ben"},
	}, assignment)

	seeded := func() models.RoomAssignment {
		out, err := NewProctorAssigner(rand.New(rand.NewSource(42))).Assign([]string{"a", "b", "c", "d"}, []string{"x", "y"})
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, seeded(), seeded())
}

func TestAssignInsufficientProctors(t *testing.T) {
	assigner := NewProctorAssigner(nil)

	_, err := assigner.Assign([]string{"Ada"}, []string{"Room 1", "Room 2"})
	assert.True(t, errors.Is(err, appErrors.ErrInsufficientProctors))

	_, err = assigner.Assign(nil, []string{"Room 1"})
	assert.True(t, errors.Is(err, appErrors.ErrInsufficientProctors))
}

func TestAssignExactPoolUsesEveryone(t *testing.T) {
	pool := []string{"Ada", "Ben"}
	assignment, err := NewProctorAssigner(nil).Assign(pool, []string{"Room 1", "Room 2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, pool, []string{assignment[0].Proctor, assignment[1].Proctor})
}
