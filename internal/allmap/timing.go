package allmap

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// StageTimings accumulates the wall-clock time spent in each pipeline stage
// across every window of a run. One accumulator is created per run, passed
// into the pipeline, and reported once at normal termination; an aborted run
// never reports it.
type StageTimings struct {
	// total time spent building window indexes
	Index time.Duration

	// total time spent generating anchors
	Matcher time.Duration

	// total time spent detecting overlaps
	Overlapper time.Duration

	// total time spent serializing PAF output
	PAF time.Duration
}

// AddIndex adds one window's index build time to the running total.
func (t *StageTimings) AddIndex(d time.Duration) {
	t.Index += d
}

// AddMatcher adds one window's matcher time to the running total.
func (t *StageTimings) AddMatcher(d time.Duration) {
	t.Matcher += d
}

// AddOverlapper adds one window's overlap detection time to the running total.
func (t *StageTimings) AddOverlapper(d time.Duration) {
	t.Overlapper += d
}

// AddPAF adds one window's serialization time to the running total.
func (t *StageTimings) AddPAF(d time.Duration) {
	t.PAF += d
}

// Log writes the accumulated stage totals to the diagnostic log.
func (t *StageTimings) Log() {
	log.Infof("index execution time: %dms", t.Index.Milliseconds())
	log.Infof("matcher execution time: %dms", t.Matcher.Milliseconds())
	log.Infof("overlap detection execution time: %dms", t.Overlapper.Milliseconds())
	log.Infof("PAF output execution time: %dms", t.PAF.Milliseconds())
}
