package allmap

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Sequence is a single input record: its header name and its bases.
type Sequence struct {
	// the record's name from the FASTA/FASTQ header
	Name string

	// the record's bases
	Seq string
}

// SequenceSource resolves ordinal read positions to sequence records.
type SequenceSource interface {
	// NumSequences returns the number of records in the source
	NumSequences() int

	// Sequence returns the record at ordinal position i.
	// Positions outside the source fail with a missing-sequence error
	Sequence(i int) (Sequence, error)
}

// fileSource is a SequenceSource over a FASTA/FASTQ file,
// optionally gzip-compressed.
type fileSource struct {
	// the records read from the file, in file order
	records []Sequence
}

// NewFileSource reads every record in the file at path. A file without
// any sequences is an error.
func NewFileSource(path string) (SequenceSource, error) {
	records, err := readSequences(path, nil, -1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.Errorf("sequence file %s has 0 sequences", path)
	}

	return &fileSource{records: records}, nil
}

func (s *fileSource) NumSequences() int {
	return len(s.records)
}

func (s *fileSource) Sequence(i int) (Sequence, error) {
	if i < 0 || i >= len(s.records) {
		return Sequence{}, errors.Errorf("no sequence found at position %d", i)
	}
	return s.records[i], nil
}

// readSequences streams the file at path and collects the records whose
// ordinal position is accepted by keep. A nil keep collects every record.
// Reading stops at ordinal position stop (every record if stop is negative).
func readSequences(path string, keep func(int) bool, stop int) ([]Sequence, error) {
	reader, err := fastx.NewReader(nil, path, "")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sequence file %s", path)
	}
	defer reader.Close()

	var records []Sequence
	for i := 0; stop < 0 || i < stop; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read sequence %d in %s", i, path)
		}
		if keep != nil && !keep(i) {
			continue
		}

		// Name and Seq are copied out because fastx reuses the record buffer
		records = append(records, Sequence{
			Name: string(record.Name),
			Seq:  string(record.Seq.Seq),
		})
	}

	return records, nil
}
