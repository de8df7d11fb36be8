package io

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/nadernamini/rna-seq-read-algn/sequence"
)

// FastaRecord is a single FASTA record: the header text after '>' (up to
// the first space) and the concatenated sequence lines.
type FastaRecord struct {
	Name string
	Seq  []byte
}

const scannerBufSize = 64 * 1024 * 1024

// ParseFasta reads FASTA records from r. Sequence lines are concatenated
// and upper-cased; blank lines are skipped.
func ParseFasta(r io.Reader) ([]FastaRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, scannerBufSize)

	var records []FastaRecord
	var current *FastaRecord
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			records = append(records, FastaRecord{})
			current = &records[len(records)-1]
			name := bytes.Fields(line[1:])
			if len(name) > 0 {
				current.Name = string(name[0])
			}
			continue
		}
		if current == nil {
			return nil, errors.New("fasta: sequence data before first header")
		}
		current.Seq = append(current.Seq, bytes.ToUpper(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "fasta: read")
	}
	if len(records) == 0 {
		return nil, errors.New("fasta: no records")
	}
	return records, nil
}

// ReadGenome reads the first record of a FASTA file as the reference
// genome and validates it against the DNA alphabet.
func ReadGenome(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "fasta: open %s", path)
	}
	defer f.Close()

	records, err := ParseFasta(f)
	if err != nil {
		return nil, "", err
	}
	rec := records[0]
	if err := sequence.Validate(rec.Seq); err != nil {
		return nil, "", errors.Wrapf(err, "fasta: genome %s", rec.Name)
	}
	return rec.Seq, rec.Name, nil
}

// ReadReads reads every record of a FASTA file as a read batch. Records
// with symbols outside the DNA alphabet are rejected up front so they never
// reach the matching engine.
func ReadReads(path string) ([][]byte, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fasta: open %s", path)
	}
	defer f.Close()

	records, err := ParseFasta(f)
	if err != nil {
		return nil, nil, err
	}
	reads := make([][]byte, 0, len(records))
	names := make([]string, 0, len(records))
	for _, rec := range records {
		if err := sequence.Validate(rec.Seq); err != nil {
			return nil, nil, errors.Wrapf(err, "fasta: read %s", rec.Name)
		}
		reads = append(reads, rec.Seq)
		names = append(names, rec.Name)
	}
	return reads, names, nil
}
