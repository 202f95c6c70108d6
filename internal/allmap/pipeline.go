package allmap

import (
	"io"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Pipeline runs the compute stages for one window of reads: index build,
// anchor matching, overlap detection and PAF serialization. Every stage's
// elapsed time is logged and added into the run-wide StageTimings.
type Pipeline struct {
	// the input sequence file
	Path string

	// the length of kmer to use for minimizers
	KmerSize int

	// the length of window to use for minimizers
	WindowSize int

	// the builder creating each window's index
	Builder IndexBuilder

	// where PAF records are written
	Out io.Writer

	// the run-wide stage timing accumulator
	Timings *StageTimings
}

// RunWindow processes one window and returns the number of reads its index
// materialized, which the planner uses as its termination signal. Any stage
// failure is returned as-is: a failed window is fatal to the whole run.
func (p *Pipeline) RunWindow(ranges []ReadRange, matchPoint int) (int, error) {
	start := time.Now()
	index, err := p.Builder.CreateIndex(p.Path, p.KmerSize, p.WindowSize, ranges)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create window index")
	}
	elapsed := time.Since(start)
	p.Timings.AddIndex(elapsed)
	log.Infof("index execution time: %dms", elapsed.Milliseconds())

	start = time.Now()
	anchors := NewMatcher(index, matchPoint).Anchors()
	elapsed = time.Since(start)
	p.Timings.AddMatcher(elapsed)
	log.Infof("matcher execution time: %dms", elapsed.Milliseconds())

	var overlapper Overlapper
	start = time.Now()
	overlaps, err := overlapper.GetOverlaps(anchors, index)
	if err != nil {
		return 0, errors.Wrap(err, "failed to detect overlaps")
	}
	elapsed = time.Since(start)
	p.Timings.AddOverlapper(elapsed)
	log.Infof("overlap detection execution time: %dms", elapsed.Milliseconds())

	start = time.Now()
	if err := overlapper.WritePAF(p.Out, overlaps); err != nil {
		return 0, err
	}
	elapsed = time.Since(start)
	p.Timings.AddPAF(elapsed)
	log.Infof("PAF output execution time: %dms", elapsed.Milliseconds())

	return index.NumberOfReads(), nil
}
