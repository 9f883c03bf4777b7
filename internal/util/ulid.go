package util

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID returns a lexically sortable id. ulid.Make draws from a
// process-wide monotonic entropy source, so ids minted in the same
// millisecond still sort in creation order.
func NewULID() string {
	return ulid.Make().String()
}

// ULIDTime extracts the creation time encoded in id.
func ULIDTime(id string) (time.Time, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
