package allmap

import "github.com/pkg/errors"

// ReadRange is a half-open interval [Start, End) of ordinal read positions
// identifying one window of the input read collection.
type ReadRange struct {
	// the first read position in the range (0-indexed)
	Start int

	// one past the last read position in the range
	End int
}

// Length returns the number of read positions the range covers.
func (r ReadRange) Length() int {
	return r.End - r.Start
}

// Contains returns whether the ordinal position i falls within the range.
func (r ReadRange) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Validate returns an error if the range is negative or empty.
func (r ReadRange) Validate() error {
	if r.Start < 0 {
		return errors.Errorf("read range start %d is negative", r.Start)
	}
	if r.Start >= r.End {
		return errors.Errorf("read range [%d, %d) is empty", r.Start, r.End)
	}
	return nil
}
