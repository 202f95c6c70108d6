package allmap

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/shenwei356/kmers"
	"github.com/zeebo/wyhash"
)

// maxKmerSize is the largest k that fits a 2-bit packed uint64 kmer code.
const maxKmerSize = 32

// MaximumKmerSize returns the largest supported kmer size.
func MaximumKmerSize() int {
	return maxKmerSize
}

// minimizerHit is one minimizer occurrence within an indexed read.
type minimizerHit struct {
	// the read's ordinal position within the index
	read int

	// the minimizer's position within the read
	pos int

	// whether the canonical kmer was the reverse complement
	reverse bool
}

// indexedRead is the per-read metadata kept by an Index.
type indexedRead struct {
	// the read's name
	name string

	// the read's length in bases
	length int
}

// Index is the minimizer index over one window of reads. It is scoped to a
// single planner iteration and discarded once its window has been processed.
type Index struct {
	// the kmer size the index was built with
	kmerSize int

	// per-read metadata, in requested range order
	reads []indexedRead

	// minimizer hash to its occurrences across all indexed reads
	table map[uint64][]minimizerHit
}

// NumberOfReads returns the count of reads the index actually materialized,
// which is less than the requested range width when the collection ended
// before the end of the range.
func (x *Index) NumberOfReads() int {
	return len(x.reads)
}

// ReadName returns the name of the read at ordinal position i in the index.
func (x *Index) ReadName(i int) string {
	return x.reads[i].name
}

// ReadLength returns the base length of the read at ordinal position i.
func (x *Index) ReadLength(i int) int {
	return x.reads[i].length
}

// IndexBuilder creates a minimizer Index over a set of read ranges.
type IndexBuilder interface {
	CreateIndex(path string, kmerSize, windowSize int, ranges []ReadRange) (*Index, error)
}

// MinimizerBuilder is the IndexBuilder backed by (w,k)-minimizer sketching
// of the reads streamed from a FASTA/FASTQ file.
type MinimizerBuilder struct{}

// CreateIndex streams the file at path, materializes the reads whose ordinal
// position falls within ranges, and sketches each one with minimizers.
// Ranges must be ascending and non-overlapping so that read order within the
// index matches range order (the matcher's match point depends on it).
func (MinimizerBuilder) CreateIndex(path string, kmerSize, windowSize int, ranges []ReadRange) (*Index, error) {
	if kmerSize < 1 || kmerSize > maxKmerSize {
		return nil, errors.Errorf("kmer of size %d is not allowed, maximum k = %d", kmerSize, maxKmerSize)
	}
	if windowSize < 1 {
		return nil, errors.Errorf("window of size %d is not allowed", windowSize)
	}
	if len(ranges) == 0 {
		return nil, errors.New("no read ranges requested")
	}
	stop := 0
	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if r.End > stop {
			stop = r.End
		}
	}

	keep := func(i int) bool {
		for _, r := range ranges {
			if r.Contains(i) {
				return true
			}
		}
		return false
	}
	records, err := readSequences(path, keep, stop)
	if err != nil {
		return nil, err
	}

	x := &Index{
		kmerSize: kmerSize,
		table:    make(map[uint64][]minimizerHit),
	}
	for _, record := range records {
		read := len(x.reads)
		x.reads = append(x.reads, indexedRead{name: record.Name, length: len(record.Seq)})
		sketchRead(x.table, read, record.Seq, kmerSize, windowSize)
	}

	return x, nil
}

// kmerSketch is the hashed canonical form of one kmer position.
type kmerSketch struct {
	// the wyhash of the canonical kmer code
	hash uint64

	// whether the canonical form was the reverse complement
	reverse bool

	// whether the kmer was valid (no non-ACGT bases)
	ok bool
}

// sketchRead appends the (w,k)-minimizers of sequence to table: for every
// window of w consecutive kmers the position with the smallest hash is kept,
// leftmost on ties, with consecutive duplicates collapsed.
func sketchRead(table map[uint64][]minimizerHit, read int, sequence string, kmerSize, windowSize int) {
	seq := []byte(sequence)
	n := len(seq) - kmerSize + 1
	if n < 1 {
		return
	}
	if windowSize > n {
		// a read shorter than a full window still gets one minimizer
		windowSize = n
	}

	var buf [8]byte
	sketches := make([]kmerSketch, n)
	for i := 0; i < n; i++ {
		code, err := kmers.Encode(seq[i : i+kmerSize])
		if err != nil {
			continue // a non-ACGT base within this kmer
		}

		canonical := code
		reverse := false
		if rc := kmers.MustRevComp(code, kmerSize); rc < code {
			canonical = rc
			reverse = true
		}

		binary.LittleEndian.PutUint64(buf[:], canonical)
		sketches[i] = kmerSketch{
			hash:    wyhash.Hash(buf[:], uint64(kmerSize)),
			reverse: reverse,
			ok:      true,
		}
	}

	lastPos := -1
	for start := 0; start+windowSize <= n; start++ {
		best := -1
		for i := start; i < start+windowSize; i++ {
			if !sketches[i].ok {
				continue
			}
			if best < 0 || sketches[i].hash < sketches[best].hash {
				best = i
			}
		}
		if best < 0 || best == lastPos {
			continue
		}

		table[sketches[best].hash] = append(table[sketches[best].hash], minimizerHit{
			read:    read,
			pos:     best,
			reverse: sketches[best].reverse,
		})
		lastPos = best
	}
}
