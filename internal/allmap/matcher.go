package allmap

import "sort"

// maxMinimizerFreq caps how many occurrences a minimizer may have before the
// matcher skips it as a repeat.
const maxMinimizerFreq = 1024

// Anchor is a candidate seed match: a minimizer shared by the query read at
// QueryPos and the target read at TargetPos.
type Anchor struct {
	// the query read's ordinal position within the index
	QueryRead int

	// the target read's ordinal position within the index
	TargetRead int

	// the minimizer's position on the query read
	QueryPos int

	// the minimizer's position on the target read
	TargetPos int

	// whether the reads matched on opposite strands
	Reverse bool
}

// Matcher pairs minimizer occurrences across the query/target split of one
// Index. A match point of zero compares the whole index against itself,
// including a read against itself at a later offset; a positive match point
// marks the ordinal position where target reads begin.
type Matcher struct {
	// the index whose minimizer table is paired up
	index *Index

	// the boundary between query and target reads
	matchPoint int
}

// NewMatcher returns a Matcher over index with the passed match point.
func NewMatcher(index *Index, matchPoint int) *Matcher {
	return &Matcher{index: index, matchPoint: matchPoint}
}

// Anchors generates every anchor for the matcher's index and match point.
// The returned anchors are sorted by query read, target read, strand and
// position so downstream chaining is deterministic.
func (m *Matcher) Anchors() []Anchor {
	var anchors []Anchor
	for _, hits := range m.index.table {
		if len(hits) > maxMinimizerFreq {
			continue // repeat minimizer
		}

		// hits are in ascending (read, pos) order by construction
		for i := 0; i < len(hits); i++ {
			for j := i + 1; j < len(hits); j++ {
				query, target := hits[i], hits[j]
				if m.matchPoint > 0 &&
					(query.read >= m.matchPoint || target.read < m.matchPoint) {
					continue
				}

				anchors = append(anchors, Anchor{
					QueryRead:  query.read,
					TargetRead: target.read,
					QueryPos:   query.pos,
					TargetPos:  target.pos,
					Reverse:    query.reverse != target.reverse,
				})
			}
		}
	}

	sort.Slice(anchors, func(i, j int) bool {
		a, b := anchors[i], anchors[j]
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

	return anchors
}
