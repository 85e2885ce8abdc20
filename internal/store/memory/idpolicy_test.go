package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gitlab.com/dirk.krummacker/phonebook-service/internal/model"
)

func TestNextUsesLastThreeDigitsPlusOffset(t *testing.T) {
	p := fixedPolicy(1_700_000_000_987, 42)
	assert.Equal(t, int64(987+42), p.Next())
}

func TestNextStaysInRange(t *testing.T) {
	p := NewIDPolicy()
	for i := 0; i < 1000; i++ {
		id := p.Next()
		assert.GreaterOrEqual(t, id, int64(0))
		assert.Less(t, id, int64(1099))
	}
}

func TestAssignReturnsFreeCandidate(t *testing.T) {
	p := fixedPolicy(5, 0)
	assert.Equal(t, int64(5), p.Assign(Seed()))
}

// TestAssignRetriesOnCollision verifies that a colliding candidate is replaced by the next draw.
func TestAssignRetriesOnCollision(t *testing.T) {
	offsets := []int{0, 0, 6}
	p := IDPolicy{
		Now: func() time.Time { return time.UnixMilli(1) },
		Offset: func(int) int {
			o := offsets[0]
			offsets = offsets[1:]
			return o
		},
	}
	assert.Equal(t, int64(7), p.Assign(Seed()))
}

// TestAssignFallsBackWhenGeneratorKeepsColliding verifies that the store never hands out an id
// twice even though the generator alone cannot guarantee that.
func TestAssignFallsBackWhenGeneratorKeepsColliding(t *testing.T) {
	p := fixedPolicy(2, 0)
	entries := append(Seed(), model.Entry{Id: "17", Name: "X", Number: "1"})
	assert.Equal(t, int64(18), p.Assign(entries))
}

func TestAssignIgnoresForeignIDs(t *testing.T) {
	p := fixedPolicy(2, 0)
	entries := []model.Entry{{Id: "2"}, {Id: "not-a-number"}}
	assert.Equal(t, int64(3), p.Assign(entries))
}

func TestNameTaken(t *testing.T) {
	assert.True(t, NameTaken(Seed(), "Ada Lovelace"))
	assert.False(t, NameTaken(Seed(), "ada lovelace"))
	assert.False(t, NameTaken(Seed(), "Ada"))
	assert.False(t, NameTaken(nil, "Ada Lovelace"))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseID("4x2")
	assert.Error(t, err)

	_, err = ParseID("")
	assert.Error(t, err)
}
