package memory

import (
	"math/rand/v2"
	"strconv"
	"time"

	"gitlab.com/dirk.krummacker/phonebook-service/internal/model"
)

// maxAttempts is how often IDPolicy.Assign draws a new candidate before it gives up on the
// generator and falls back to the next free number.
const maxAttempts = 10

// IDPolicy decides which id a new entry gets and whether its name may be used.
//
// Ids are built from the last three decimal digits of the current Unix millisecond timestamp
// plus a random offset below 100. This usually avoids collisions but does not guarantee it:
// the value range is only 0 to 1098. Assign therefore checks every candidate against the ids in
// use and, after maxAttempts collisions, takes the highest id in use plus one.
type IDPolicy struct {
	Now    func() time.Time
	Offset func(n int) int
}

// NewIDPolicy returns a policy driven by the wall clock and math/rand.
func NewIDPolicy() IDPolicy {
	return IDPolicy{Now: time.Now, Offset: rand.IntN}
}

// Next returns a candidate id. It may already be in use.
func (p IDPolicy) Next() int64 {
	return p.Now().UnixMilli()%1000 + int64(p.Offset(100))
}

// Assign returns an id that is not used by any of the entries.
func (p IDPolicy) Assign(entries []model.Entry) int64 {
	used := make(map[int64]bool, len(entries))
	var highest int64
	for _, e := range entries {
		id, err := ParseID(e.Id)
		if err != nil {
			continue
		}
		used[id] = true
		highest = max(highest, id)
	}
	for i := 0; i < maxAttempts; i++ {
		candidate := p.Next()
		if !used[candidate] {
			return candidate
		}
	}
	return highest + 1
}

// NameTaken returns true if an entry with exactly this name exists. The comparison is case
// sensitive.
func NameTaken(entries []model.Entry, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// ParseID converts the textual id used on the wire into the numeric id of the memory backend.
func ParseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// FormatID converts a numeric id into its textual form.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
