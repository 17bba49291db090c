// Package genome loads the two annotated genome sequences the design
// pipeline compares and exposes the feature filtering used to locate
// border annotations.
package genome

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
)

// Strand of a feature or primer; +1 for the forward strand, -1 for the
// reverse strand.
type Strand int8

const (
	// Fwd is the forward (top, 5'→3') strand
	Fwd Strand = 1

	// Rev is the reverse (bottom) strand
	Rev Strand = -1
)

func (s Strand) String() string {
	if s == Rev {
		return "-"
	}
	return "+"
}

// Feature is a single annotation parsed from a genome file
type Feature struct {
	// Type is the feature key, ex "CDS", "synthetic_fragment"
	Type string

	// Qualifiers maps qualifier names to their values, ex "label" -> "seg17"
	Qualifiers map[string]string

	// Start of the feature, 0-indexed
	Start int

	// End of the feature, 0-indexed and exclusive
	End int

	// Strand the feature annotates
	Strand Strand
}

// Genome is an immutable nucleotide sequence plus its annotations.
// Two instances exist per run: the recoded genome and its reference
type Genome struct {
	// ID from the LOCUS line (GenBank) or the record header (FASTA)
	ID string

	// Seq is the uppercase nucleotide sequence
	Seq string

	// Features parsed from the annotation table; empty for FASTA input
	Features []Feature
}

// Len is the sequence length in bp
func (g *Genome) Len() int {
	return len(g.Seq)
}

// FormatError is a genome file the loader could not make sense of
type FormatError struct {
	// Path of the offending file
	Path string

	// Reason parsing gave up
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", e.Path, e.Reason)
}

// Load reads a genome from a GenBank or FASTA file, deciding on the
// file's suffix and, failing that, its first byte
func Load(path string) (*Genome, error) {
	dat, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genome file: %w", err)
	}
	contents := string(dat)
	if strings.TrimSpace(contents) == "" {
		return nil, &FormatError{Path: path, Reason: "empty file"}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gb", ".gbk", ".genbank":
		return readGenbank(path, contents)
	case ".fa", ".fasta", ".seq":
		return readFasta(path, contents)
	}

	if contents[0] == '>' {
		return readFasta(path, contents)
	}
	if strings.HasPrefix(contents, "LOCUS") {
		return readGenbank(path, contents)
	}
	return nil, &FormatError{Path: path, Reason: "unrecognized file type"}
}

// readFasta parses the first record of a FASTA file to a Genome.
// FASTA input carries no annotations, so Features is empty
func readFasta(path, contents string) (*Genome, error) {
	lines := strings.Split(contents, "\n")

	id := ""
	var seq strings.Builder
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, ">") {
			if id != "" {
				break // only the first record is the genome
			}
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, &FormatError{Path: path, Reason: "FASTA header has no record name"}
			}
			id = fields[0]
			continue
		}
		seq.WriteString(line)
	}

	if id == "" {
		return nil, &FormatError{Path: path, Reason: "no FASTA header"}
	}
	cleaned := cleanSeq(seq.String())
	if cleaned == "" {
		return nil, &FormatError{Path: path, Reason: "no sequence under header " + id}
	}

	return &Genome{ID: id, Seq: cleaned}, nil
}

// cleanSeq uppercases a raw sequence and drops everything that is not a
// nucleotide letter (digits, whitespace, separators)
func cleanSeq(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c >= 'A' && c <= 'Z' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
	complement['N'] = 'N'
}

// RevComp returns the reverse complement of a sequence. Bases without a
// complement come back as N
func RevComp(seq string) string {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return string(out)
}
