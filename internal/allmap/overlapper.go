package allmap

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
)

const (
	// maxAnchorGap is the largest query or target gap between consecutive
	// anchors that still extends a chain
	maxAnchorGap = 5000

	// minAnchorsPerOverlap is the trigger: chains with fewer anchors are
	// discarded as seed noise
	minAnchorsPerOverlap = 3

	// pafMappingQuality is written as the PAF quality column; overlap
	// candidates carry no alignment score
	pafMappingQuality = 255
)

// Overlap is one detected overlap between two reads, shaped for PAF output.
type Overlap struct {
	// the query read's name
	QueryName string

	// the query read's length in bases
	QueryLen int

	// the overlap's half-open span on the query read
	QueryStart int
	QueryEnd   int

	// whether the target matched on the opposite strand
	Reverse bool

	// the target read's name
	TargetName string

	// the target read's length in bases
	TargetLen int

	// the overlap's half-open span on the target read
	TargetStart int
	TargetEnd   int

	// the number of residue matches credited to the overlap
	Matches int

	// the overlap's span on the query read
	Length int
}

// Overlapper chains anchors into overlaps and serializes them as PAF.
type Overlapper struct{}

// GetOverlaps chains the anchors of one window into overlap records.
// Anchors are swept in (query, target, strand, position) order; a chain
// breaks once the gap on either side exceeds maxAnchorGap, and only chains
// of at least minAnchorsPerOverlap anchors trigger a record.
func (Overlapper) GetOverlaps(anchors []Anchor, index *Index) ([]Overlap, error) {
	if index == nil {
		return nil, errors.New("overlap detection needs the window's index")
	}

	sorted := make([]Anchor, len(anchors))
	copy(sorted, anchors)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.QueryRead != b.QueryRead {
			return a.QueryRead < b.QueryRead
		}
		if a.TargetRead != b.TargetRead {
			return a.TargetRead < b.TargetRead
		}
		if a.Reverse != b.Reverse {
			return !a.Reverse
		}
		if a.QueryPos != b.QueryPos {
			return a.QueryPos < b.QueryPos
		}
		return a.TargetPos < b.TargetPos
	})

	var overlaps []Overlap
	var chain []Anchor
	flush := func() {
		if len(chain) >= minAnchorsPerOverlap {
			overlaps = append(overlaps, chainOverlap(chain, index))
		}
		chain = chain[:0]
	}

	for _, anchor := range sorted {
		if len(chain) > 0 && !extendsChain(chain[len(chain)-1], anchor) {
			flush()
		}
		chain = append(chain, anchor)
	}
	flush()

	return overlaps, nil
}

// extendsChain returns whether next continues the chain ending at prev:
// same read pair and strand, with bounded gaps that progress forward on the
// query and, for reverse chains, backward on the target.
func extendsChain(prev, next Anchor) bool {
	if prev.QueryRead != next.QueryRead ||
		prev.TargetRead != next.TargetRead ||
		prev.Reverse != next.Reverse {
		return false
	}

	queryGap := next.QueryPos - prev.QueryPos
	if queryGap < 0 || queryGap > maxAnchorGap {
		return false
	}

	targetGap := next.TargetPos - prev.TargetPos
	if prev.Reverse {
		targetGap = -targetGap
	}
	return targetGap >= 0 && targetGap <= maxAnchorGap
}

// chainOverlap converts a completed chain into its overlap record.
func chainOverlap(chain []Anchor, index *Index) Overlap {
	first, last := chain[0], chain[len(chain)-1]
	k := index.kmerSize

	queryStart, queryEnd := first.QueryPos, last.QueryPos+k
	targetStart, targetEnd := first.TargetPos, last.TargetPos+k
	if first.Reverse {
		targetStart, targetEnd = last.TargetPos, first.TargetPos+k
	}

	length := queryEnd - queryStart
	matches := len(chain) * k
	if matches > length {
		matches = length
	}

	return Overlap{
		QueryName:   index.ReadName(first.QueryRead),
		QueryLen:    index.ReadLength(first.QueryRead),
		QueryStart:  queryStart,
		QueryEnd:    queryEnd,
		Reverse:     first.Reverse,
		TargetName:  index.ReadName(first.TargetRead),
		TargetLen:   index.ReadLength(first.TargetRead),
		TargetStart: targetStart,
		TargetEnd:   targetEnd,
		Matches:     matches,
		Length:      length,
	}
}

// WritePAF writes one 12-column PAF line per overlap to w, flushing before
// returning so each window's records reach the sink as the window completes.
func (Overlapper) WritePAF(w io.Writer, overlaps []Overlap) error {
	out := bufio.NewWriter(w)
	for _, o := range overlaps {
		strand := "+"
		if o.Reverse {
			strand = "-"
		}

		_, err := fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			o.QueryName, o.QueryLen, o.QueryStart, o.QueryEnd, strand,
			o.TargetName, o.TargetLen, o.TargetStart, o.TargetEnd,
			o.Matches, o.Length, pafMappingQuality)
		if err != nil {
			return errors.Wrap(err, "failed to write PAF record")
		}
	}

	if err := out.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush PAF output")
	}
	return nil
}
