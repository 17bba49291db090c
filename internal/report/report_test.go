package report

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hainesm6-learning/mascpcr/config"
	"github.com/hainesm6-learning/mascpcr/internal/design"
	"github.com/hainesm6-learning/mascpcr/internal/genome"
)

func fakeRun() (*design.Result, design.Input) {
	res := &design.Result{
		RunID: "f4f622f0-6aae-4efc-a4cc-33c111b0a81c",
		Pairs: []design.PrimerPair{{
			Bin: 1,
			Discriminatory: design.Candidate{
				Seq: "ACTGATCTAGACTGATCTAGC", Start: 480, Length: 21,
				Strand: genome.Fwd, Tm: 61.2, MismatchOffsets: []int{0},
			},
			Wildtype: design.Candidate{
				Seq: "ACTGATCTAGACTGATCTAGA", Start: 480, Length: 21,
				Strand: genome.Fwd, Tm: 59.8,
			},
			Common: design.Candidate{
				Seq: "CTAGATCAGTCTAGATCAGT", Start: 759, Length: 20,
				Strand: genome.Rev, Tm: 60.4,
			},
			ProductSize: 300,
		}},
		Failures: []*design.NoPrimerFoundError{
			{Bin: 0, Lo: 0, Hi: 300, Reason: "no edit clusters in bin"},
			{Bin: 2, Lo: 600, Hi: 1000, Reason: "no edit clusters in bin"},
		},
		Bins: []design.Bin{
			{Index: 0, Lo: 0, Hi: 300, TargetSize: 300},
			{Index: 1, Lo: 300, Hi: 600, TargetSize: 300, HasEdit: true},
			{Index: 2, Lo: 600, Hi: 1000, TargetSize: 400},
		},
		Elapsed: 1500 * time.Millisecond,
	}
	in := design.Input{
		Recoded:   &genome.Genome{ID: "rec_genome", Seq: strings.Repeat("A", 1000)},
		Reference: &genome.Genome{ID: "ref_genome", Seq: strings.Repeat("A", 1000)},
		Start:     0,
		End:       1000,
	}
	return res, in
}

func outConfig(dir string) *config.Config {
	c := &config.Config{}
	c.Output.Dir = dir
	c.Output.Basename = "mascpcr"
	c.Primer.TmMin, c.Primer.TmMax = 60, 65
	c.Primer.MinSize, c.Primer.MaxSize = 18, 30
	c.Bins.ProductSizes = []int{300, 300, 400}
	c.Bins.SizeTolerance = 25
	return c
}

func TestFiles_writesBoth(t *testing.T) {
	res, in := fakeRun()
	conf := outConfig(t.TempDir())

	paths, err := Files(res, in, conf)
	if err != nil {
		t.Fatalf("Files() err = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Files() wrote %d files, want 2", len(paths))
	}

	txt, err := ioutil.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("ReadFile(%q) err = %v", paths[0], err)
	}
	for _, want := range []string{
		res.RunID,
		"rec_genome",
		"discriminatory",
		"wildtype",
		"common",
		"ACTGATCTAGACTGATCTAGC",
		"no edit clusters in bin",
	} {
		if !strings.Contains(string(txt), want) {
			t.Errorf("text report is missing %q", want)
		}
	}
}

func TestFiles_respectsToggles(t *testing.T) {
	res, in := fakeRun()

	conf := outConfig(t.TempDir())
	conf.Output.NoXLSX = true
	paths, err := Files(res, in, conf)
	if err != nil {
		t.Fatalf("Files() err = %v", err)
	}
	if len(paths) != 1 || !strings.HasSuffix(paths[0], "_report.txt") {
		t.Errorf("paths = %v, want just the text report", paths)
	}

	conf = outConfig(t.TempDir())
	conf.Output.NoReport = true
	conf.Output.NoXLSX = true
	paths, err = Files(res, in, conf)
	if err != nil {
		t.Fatalf("Files() err = %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("paths = %v, want none with both reports off", paths)
	}
}

func TestFiles_workbook(t *testing.T) {
	res, in := fakeRun()
	conf := outConfig(t.TempDir())
	conf.Output.NoReport = true

	paths, err := Files(res, in, conf)
	if err != nil {
		t.Fatalf("Files() err = %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("paths = %v, want just the workbook", paths)
	}

	f, err := excelize.OpenFile(filepath.Join(conf.Output.Dir, "mascpcr_primers.xlsx"))
	if err != nil {
		t.Fatalf("OpenFile() err = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("primers")
	if err != nil {
		t.Fatalf("GetRows(primers) err = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("primers sheet has %d rows, want header + 3 primers", len(rows))
	}
	if rows[0][0] != "bin" || rows[0][2] != "sequence" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "discriminatory" || rows[1][2] != "ACTGATCTAGACTGATCTAGC" {
		t.Errorf("first primer row = %v", rows[1])
	}
	if rows[3][1] != "common" || rows[3][6] != "-" {
		t.Errorf("common primer row = %v", rows[3])
	}

	binRows, err := f.GetRows("bins")
	if err != nil {
		t.Fatalf("GetRows(bins) err = %v", err)
	}
	if len(binRows) != 4 {
		t.Fatalf("bins sheet has %d rows, want header + 3 bins", len(binRows))
	}
	if binRows[2][5] != "designed" {
		t.Errorf("bin 1 status = %q, want designed", binRows[2][5])
	}
	if binRows[1][5] != "unsatisfied" {
		t.Errorf("bin 0 status = %q, want unsatisfied", binRows[1][5])
	}

	params, err := f.GetRows("params")
	if err != nil {
		t.Fatalf("GetRows(params) err = %v", err)
	}
	var sawRun bool
	for _, row := range params {
		if len(row) >= 2 && row[0] == "run" && row[1] == res.RunID {
			sawRun = true
		}
	}
	if !sawRun {
		t.Error("params sheet does not carry the run id")
	}
}
