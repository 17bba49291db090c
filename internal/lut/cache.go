package lut

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/snksoft/crc"
)

// Tables bundles the four lookup tables a design run builds
type Tables struct {
	Coords   *CoordinateMap
	Mismatch *MismatchTable
	Edges    *EdgeTable
	Borders  *BorderTable
}

// tablePayload is the gob form of Tables. The tables themselves keep
// their fields unexported, so caching flattens them here
type tablePayload struct {
	Start    int
	Ref      []int32
	Diff     []bool
	DiffN    int
	Clusters []Cluster
	Borders  []Border
}

// Fingerprint identifies one LUT build: both sequences, the region, and
// every option that shapes the tables. Any change reruns the build
func Fingerprint(recodedSeq, referenceSeq string, start, end int, mopts MapOptions, eopts EditOptions, types, regexs []string) uint64 {
	h := crc.NewHash(crc.CRC64ECMA)
	h.Update([]byte(recodedSeq))
	h.Update([]byte(referenceSeq))
	h.Update([]byte(fmt.Sprintf("%d|%d|%d|%d|%d|%s|%s",
		start, end,
		mopts.AnchorLen, mopts.MaxShift,
		eopts.ClusterGap,
		strings.Join(types, ","), strings.Join(regexs, ","))))
	return h.CRC()
}

// cacheFile is the on-disk name for a fingerprint
func cacheFile(dir string, fp uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%016x.luts", fp))
}

// SaveTables writes the tables to dir keyed by fingerprint
func SaveTables(dir string, fp uint64, t Tables) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create LUT cache dir: %w", err)
	}

	payload := tablePayload{
		Start:    t.Coords.start,
		Ref:      t.Coords.ref,
		Diff:     t.Mismatch.diff,
		DiffN:    t.Mismatch.count,
		Clusters: t.Edges.clusters,
		Borders:  t.Borders.borders,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("failed to encode LUT cache: %w", err)
	}
	if err := ioutil.WriteFile(cacheFile(dir, fp), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write LUT cache: %w", err)
	}
	return nil
}

// LoadTables reads the tables cached under fingerprint. ok is false
// when there is no usable entry; a stale or corrupt entry is not an
// error, the caller rebuilds
func LoadTables(dir string, fp uint64) (Tables, bool) {
	dat, err := ioutil.ReadFile(cacheFile(dir, fp))
	if err != nil {
		return Tables{}, false
	}

	var payload tablePayload
	if err := gob.NewDecoder(bytes.NewReader(dat)).Decode(&payload); err != nil {
		return Tables{}, false
	}
	if payload.Ref == nil || len(payload.Ref) != len(payload.Diff) {
		return Tables{}, false
	}

	return Tables{
		Coords:   &CoordinateMap{start: payload.Start, ref: payload.Ref},
		Mismatch: &MismatchTable{start: payload.Start, diff: payload.Diff, count: payload.DiffN},
		Edges:    &EdgeTable{clusters: payload.Clusters},
		Borders:  &BorderTable{borders: payload.Borders},
	}, true
}
