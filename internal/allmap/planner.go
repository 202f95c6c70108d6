package allmap

import "github.com/pkg/errors"

// WindowFunc processes one window comparison: the read ranges to index and
// the match point separating query from target reads. It returns the number
// of reads the window's index actually materialized.
type WindowFunc func(ranges []ReadRange, matchPoint int) (numReads int, err error)

// Planner enumerates every window comparison needed for all-to-all overlap
// detection: each query window against itself, then against every strictly
// later target window. The end of the collection is never queried up front;
// it is inferred from each window's materialized read count.
type Planner struct {
	// the number of reads per window
	IndexSize int

	// the advance applied past a window's end when starting the next one.
	// Zero matches the half-open range contract of the index builder and
	// leaves window seams gap-free; one reproduces the historical
	// inclusive-seam advance, which skips one read at every seam
	SeamOffset int
}

// PlanAndRun drives run over every window comparison. A window reporting
// fewer reads than requested is still fully processed before it ends its
// loop, and once the collection end is known no window starting at or past
// it is requested. Any error from run aborts the plan immediately.
func (p *Planner) PlanAndRun(run WindowFunc) error {
	if p.IndexSize < 1 {
		return errors.Errorf("index size %d is not allowed", p.IndexSize)
	}
	if p.SeamOffset < 0 {
		return errors.Errorf("seam offset %d is negative", p.SeamOffset)
	}

	// the end of the collection, once a short window has revealed it
	total := -1

	queryStart := 0
	for {
		queryEnd := queryStart + p.IndexSize

		numReads, err := run([]ReadRange{{Start: queryStart, End: queryEnd}}, 0)
		if err != nil {
			return err
		}
		if numReads < p.IndexSize {
			// the query window reached the end of the reads
			return nil
		}

		targetStart := queryEnd + p.SeamOffset
		for total < 0 || targetStart < total {
			targetEnd := targetStart + p.IndexSize

			ranges := []ReadRange{
				{Start: queryStart, End: queryEnd},
				{Start: targetStart, End: targetEnd},
			}
			numReads, err := run(ranges, queryEnd-queryStart)
			if err != nil {
				return err
			}
			if numReads < 2*p.IndexSize {
				// the target window reached the end of the reads; the
				// query side was full, so the remainder is the count of
				// target reads materialized past targetStart
				total = targetStart + numReads - p.IndexSize
				break
			}

			targetStart = targetEnd + p.SeamOffset
		}

		queryStart = queryEnd + p.SeamOffset
		if total >= 0 && queryStart >= total {
			return nil
		}
	}
}
