// Package report writes a finished design run to disk: a text summary
// and an xlsx workbook with one row per primer
package report

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hainesm6-learning/mascpcr/config"
	"github.com/hainesm6-learning/mascpcr/internal/design"
)

// Files writes the enabled report files into conf.Output.Dir and
// returns the paths written. NoReport and NoXLSX drop the respective
// file
func Files(res *design.Result, in design.Input, conf *config.Config) ([]string, error) {
	if err := os.MkdirAll(conf.Output.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var paths []string
	if !conf.Output.NoReport {
		p := filepath.Join(conf.Output.Dir, conf.Output.Basename+"_report.txt")
		if err := writeText(p, res, in, conf); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	if !conf.Output.NoXLSX {
		p := filepath.Join(conf.Output.Dir, conf.Output.Basename+"_primers.xlsx")
		if err := writeXLSX(p, res, in, conf); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// primerRow pairs a primer with its role in the set
type primerRow struct {
	role string
	c    design.Candidate
}

func rows(pair design.PrimerPair) []primerRow {
	return []primerRow{
		{"discriminatory", pair.Discriminatory},
		{"wildtype", pair.Wildtype},
		{"common", pair.Common},
	}
}

func writeText(path string, res *design.Result, in design.Input, conf *config.Config) error {
	var b strings.Builder

	fmt.Fprintf(&b, "MASC-PCR primer design\n")
	fmt.Fprintf(&b, "run:       %s\n", res.RunID)
	fmt.Fprintf(&b, "date:      %s\n", stamp(time.Now()))
	fmt.Fprintf(&b, "genome:    %s (%d bp)\n", in.Recoded.ID, in.Recoded.Len())
	fmt.Fprintf(&b, "reference: %s (%d bp)\n", in.Reference.ID, in.Reference.Len())
	fmt.Fprintf(&b, "region:    [%d, %d)\n", in.Start, in.End)
	fmt.Fprintf(&b, "elapsed:   %s\n", res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "settings:  tm [%.1f, %.1f], %d-%d bp, clip %.1f, products %v ±%d bp\n",
		conf.Primer.TmMin, conf.Primer.TmMax, conf.Primer.MinSize, conf.Primer.MaxSize,
		conf.Primer.SpuriousTmClip, conf.Bins.ProductSizes, conf.Bins.SizeTolerance)
	fmt.Fprintf(&b, "\n")

	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "bin\tspan\tproduct\trole\tsequence 5'-3'\tlen\ttm\tstrand")
	for _, pair := range res.Pairs {
		bin := res.Bins[pair.Bin]
		for _, r := range rows(pair) {
			fmt.Fprintf(w, "%d\t[%d, %d)\t%d\t%s\t%s\t%d\t%.1f\t%s\n",
				pair.Bin, bin.Lo, bin.Hi, pair.ProductSize,
				r.role, r.c.Seq, r.c.Length, r.c.Tm, r.c.Strand)
		}
	}
	w.Flush()

	if len(res.Failures) > 0 {
		fmt.Fprintf(&b, "\nunsatisfied bins\n")
		for _, f := range res.Failures {
			fmt.Fprintf(&b, "  bin %d [%d, %d): %s\n", f.Bin, f.Lo, f.Hi, f.Reason)
		}
	}

	return ioutil.WriteFile(path, []byte(b.String()), 0644)
}

func writeXLSX(path string, res *design.Result, in design.Input, conf *config.Config) error {
	f := excelize.NewFile()
	defer f.Close()

	const primers = "primers"
	if err := f.SetSheetName("Sheet1", primers); err != nil {
		return err
	}
	header := []interface{}{"bin", "role", "sequence", "length", "start", "end", "strand",
		"tm", "hairpin_tm", "homodimer_tm", "mismatch_offsets", "product_size"}
	if err := f.SetSheetRow(primers, "A1", &header); err != nil {
		return err
	}
	line := 2
	for _, pair := range res.Pairs {
		for _, r := range rows(pair) {
			row := []interface{}{pair.Bin, r.role, r.c.Seq, r.c.Length, r.c.Start, r.c.End(),
				r.c.Strand.String(), r.c.Tm, r.c.HairpinTm, r.c.HomodimerTm,
				joinInts(r.c.MismatchOffsets), pair.ProductSize}
			if err := f.SetSheetRow(primers, fmt.Sprintf("A%d", line), &row); err != nil {
				return err
			}
			line++
		}
	}

	const binsSheet = "bins"
	if _, err := f.NewSheet(binsSheet); err != nil {
		return err
	}
	binHeader := []interface{}{"bin", "lo", "hi", "target_size", "edit_clusters", "status", "detail"}
	if err := f.SetSheetRow(binsSheet, "A1", &binHeader); err != nil {
		return err
	}
	for i, bin := range res.Bins {
		status, detail := binStatus(res, bin.Index)
		row := []interface{}{bin.Index, bin.Lo, bin.Hi, bin.TargetSize, len(bin.Clusters), status, detail}
		if err := f.SetSheetRow(binsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	const params = "params"
	if _, err := f.NewSheet(params); err != nil {
		return err
	}
	kv := [][2]interface{}{
		{"run", res.RunID},
		{"date", stamp(time.Now())},
		{"genome", in.Recoded.ID},
		{"reference", in.Reference.ID},
		{"region_start", in.Start},
		{"region_end", in.End},
		{"tm_min", conf.Primer.TmMin},
		{"tm_max", conf.Primer.TmMax},
		{"min_size", conf.Primer.MinSize},
		{"max_size", conf.Primer.MaxSize},
		{"min_mismatches", conf.Primer.MinMismatches},
		{"spurious_tm_clip", conf.Primer.SpuriousTmClip},
		{"mismatch_weights", joinInts(conf.Primer.MismatchWeights)},
		{"product_sizes", joinInts(conf.Bins.ProductSizes)},
		{"size_tolerance", conf.Bins.SizeTolerance},
		{"edge_offset", conf.Bins.EdgeOffset},
		{"lenient", conf.Primer.Lenient},
		{"offtarget", conf.Offtarget.Enabled},
		{"offtarget_max_mismatches", conf.Offtarget.MaxMismatches},
		{"offtarget_seed_len", conf.Offtarget.SeedLen},
	}
	for i, pair := range kv {
		row := []interface{}{pair[0], pair[1]}
		if err := f.SetSheetRow(params, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func binStatus(res *design.Result, bin int) (string, string) {
	for _, p := range res.Pairs {
		if p.Bin == bin {
			return "designed", fmt.Sprintf("%d bp product", p.ProductSize)
		}
	}
	for _, f := range res.Failures {
		if f.Bin == bin {
			return "unsatisfied", f.Reason
		}
	}
	return "unsatisfied", ""
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}

func stamp(t time.Time) string {
	return fmt.Sprintf("%d/%02d/%02d %02d:%02d:%02d",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
}
