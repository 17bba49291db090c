package genome

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	locusRegex = regexp.MustCompile(`LOCUS\s+(\S+)`)

	// a feature row: five spaces, a key, whitespace, a location
	featureRegex = regexp.MustCompile(`^ {5}(\S+)\s+(\S.*)$`)

	// the coordinate span inside a location, ex "4310..5340"
	rangeRegex = regexp.MustCompile(`(\d+)\.\.(\d+)`)

	// a single-base location, ex "4310"
	pointRegex = regexp.MustCompile(`^(\d+)$`)
)

// readGenbank parses a GenBank file to a Genome: LOCUS name, the
// feature table with qualifiers, and the ORIGIN sequence
func readGenbank(path, contents string) (*Genome, error) {
	originSplit := strings.SplitN(contents, "\nORIGIN", 2)
	if len(originSplit) != 2 {
		return nil, &FormatError{Path: path, Reason: "no ORIGIN section"}
	}

	seq := cleanSeq(originSplit[1])
	if seq == "" {
		return nil, &FormatError{Path: path, Reason: "no sequence under ORIGIN"}
	}

	locusMatch := locusRegex.FindStringSubmatch(originSplit[0])
	if locusMatch == nil {
		return nil, &FormatError{Path: path, Reason: "no LOCUS line"}
	}
	id := locusMatch[1]

	features, err := readFeatures(path, originSplit[0], len(seq))
	if err != nil {
		return nil, err
	}

	return &Genome{ID: id, Seq: seq, Features: features}, nil
}

// readFeatures parses the FEATURES table between the header and ORIGIN.
// Coordinates are converted from 1-indexed inclusive to 0-indexed
// half-open. Features whose span cannot be parsed (ex joins across the
// origin) are skipped rather than failing the whole load
func readFeatures(path, header string, seqLen int) ([]Feature, error) {
	featuresSplit := strings.SplitN(header, "\nFEATURES", 2)
	if len(featuresSplit) != 2 {
		return nil, nil // annotation-free files are valid
	}

	var features []Feature
	var current *Feature
	var qualName string

	lines := strings.Split(featuresSplit[1], "\n")
	for _, line := range lines[1:] {
		if m := featureRegex.FindStringSubmatch(line); m != nil {
			if current != nil {
				features = append(features, *current)
			}
			current = nil
			qualName = ""

			start, end, strand, ok := parseLocation(m[2])
			if !ok || start < 0 || end > seqLen || start >= end {
				continue
			}
			current = &Feature{
				Type:       m[1],
				Qualifiers: map[string]string{},
				Start:      start,
				End:        end,
				Strand:     strand,
			}
			continue
		}

		if current == nil {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "/") {
			name, value := parseQualifier(trimmed)
			if prev, ok := current.Qualifiers[name]; ok && value != "" {
				value = prev + "; " + value
			}
			current.Qualifiers[name] = value
			qualName = name
		} else if qualName != "" && trimmed != "" {
			// continuation of a wrapped qualifier value
			current.Qualifiers[qualName] += " " + strings.Trim(trimmed, `"`)
		}
	}
	if current != nil {
		features = append(features, *current)
	}

	return features, nil
}

// parseLocation extracts the outer coordinate span and strand from a
// GenBank location string, ex "complement(join(10..20,30..40))"
func parseLocation(loc string) (start, end int, strand Strand, ok bool) {
	strand = Fwd
	if strings.Contains(loc, "complement") {
		strand = Rev
	}

	if m := rangeRegex.FindAllStringSubmatch(loc, -1); len(m) > 0 {
		first, err1 := strconv.Atoi(m[0][1])
		last, err2 := strconv.Atoi(m[len(m)-1][2])
		if err1 != nil || err2 != nil {
			return 0, 0, strand, false
		}
		return first - 1, last, strand, true
	}

	if m := pointRegex.FindStringSubmatch(strings.Trim(loc, "complement()")); m != nil {
		p, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, 0, strand, false
		}
		return p - 1, p, strand, true
	}

	return 0, 0, strand, false
}

// parseQualifier splits a "/name=value" qualifier line. Quotes around the
// value are dropped; bare flags like "/pseudo" get an empty value
func parseQualifier(line string) (name, value string) {
	line = strings.TrimPrefix(line, "/")
	eq := strings.Index(line, "=")
	if eq < 0 {
		return line, ""
	}
	name = line[:eq]
	value = strings.Trim(line[eq+1:], `"`)
	return name, value
}
