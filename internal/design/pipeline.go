package design

import (
	"fmt"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hainesm6-learning/mascpcr/config"
	"github.com/hainesm6-learning/mascpcr/internal/genome"
	"github.com/hainesm6-learning/mascpcr/internal/lut"
	"github.com/hainesm6-learning/mascpcr/internal/thermo"
	"github.com/hainesm6-learning/mascpcr/logger"
)

// Input is one design run: the two genomes and the recoded-coordinate
// region to cover with primer sets
type Input struct {
	// Recoded genome the primers anneal to
	Recoded *genome.Genome

	// Reference genome the design discriminates against
	Reference *genome.Genome

	// Start, End bound the region, [Start, End) in recoded coordinates
	Start, End int
}

// Result is everything one design run produced
type Result struct {
	// RunID names the run in reports and the primer catalog
	RunID string

	// Pairs designed, ascending by bin
	Pairs []PrimerPair

	// Failures for the bins the search could not satisfy
	Failures []*NoPrimerFoundError

	// Bins the region was laid out into
	Bins []Bin

	// Tables built or loaded for the run
	Tables lut.Tables

	// Elapsed wall time of the run
	Elapsed time.Duration
}

// Design runs the pipeline end to end: lookup tables, bin layout, and
// the per-bin primer search
func Design(in Input, conf *config.Config) (*Result, error) {
	began := time.Now()
	if err := validate(in); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger.Info("designing MASC-PCR primers",
		zap.String("run", runID),
		zap.String("genome", in.Recoded.ID),
		zap.String("reference", in.Reference.ID),
		zap.Int("start", in.Start),
		zap.Int("end", in.End))

	tables, err := GenerateLUTs(in.Recoded, in.Reference, in.Start, in.End, conf)
	if err != nil {
		return nil, err
	}
	logger.Info("lookup tables ready",
		zap.Int("mismatches", tables.Mismatch.Count()),
		zap.Int("clusters", len(tables.Edges.Clusters())),
		zap.Int("borders", len(tables.Borders.All())))

	bins, err := BuildBins(in.Start, in.End, conf.Bins.ProductSizes, conf.Bins.SizeTolerance,
		tables.Edges, tables.Borders, BinPolicy{Strict: conf.Bins.Strict})
	if err != nil {
		return nil, err
	}

	cacheSize := conf.Thermo.TmCacheSize
	if cacheSize <= 0 {
		cacheSize = 16384
	}
	calc := thermo.NewCached(thermo.New(thermo.Conditions{
		MvConc:   conf.Thermo.MvConc,
		DvConc:   conf.Thermo.DvConc,
		DNTPConc: conf.Thermo.DNTPConc,
		DNAConc:  conf.Thermo.DNAConc,
	}), cacheSize)

	var bar *pb.ProgressBar
	var tick func()
	if !conf.Output.Quiet {
		bar = pb.Full.Start(len(bins))
		tick = func() { bar.Increment() }
	}
	pairs, failures, err := findPrimerSets(in.Recoded, in.Reference, tables, bins, calc, conf, tick)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return nil, err
	}

	for _, f := range failures {
		logger.Warn("bin unsatisfied", zap.Int("bin", f.Bin), zap.String("reason", f.Reason))
	}
	logger.Info("design finished",
		zap.Int("sets", len(pairs)),
		zap.Int("unsatisfied", len(failures)),
		zap.Duration("elapsed", time.Since(began)))

	return &Result{
		RunID:    runID,
		Pairs:    pairs,
		Failures: failures,
		Bins:     bins,
		Tables:   tables,
		Elapsed:  time.Since(began),
	}, nil
}

// GenerateLUTs builds the four lookup tables for a region, reusing a
// cached build when one matches the genomes, region, and options
func GenerateLUTs(rec, ref *genome.Genome, start, end int, conf *config.Config) (lut.Tables, error) {
	mopts := lut.MapOptions{AnchorLen: conf.Map.AnchorLen, MaxShift: conf.Map.MaxShift}
	eopts := lut.EditOptions{ClusterGap: conf.Map.ClusterGap}

	var fp uint64
	if !conf.Cache.Disabled {
		fp = lut.Fingerprint(rec.Seq, ref.Seq, start, end, mopts, eopts,
			conf.Borders.FeatureTypes, conf.Borders.QualifierRegexs)
		if !conf.Cache.Recache {
			if t, ok := lut.LoadTables(conf.Cache.Dir, fp); ok {
				logger.Debug("lookup tables loaded from cache", zap.String("dir", conf.Cache.Dir))
				return t, nil
			}
		}
	}

	coords, err := lut.BuildCoordinateMap(rec, ref, start, end, mopts)
	if err != nil {
		return lut.Tables{}, err
	}
	mismatch, edges := lut.ScanEdits(coords, rec, ref, eopts)
	borders, err := lut.LocateBorders(rec.Features, conf.Borders.FeatureTypes, conf.Borders.QualifierRegexs, edges)
	if err != nil {
		return lut.Tables{}, err
	}

	t := lut.Tables{Coords: coords, Mismatch: mismatch, Edges: edges, Borders: borders}
	if !conf.Cache.Disabled {
		if err := lut.SaveTables(conf.Cache.Dir, fp, t); err != nil {
			logger.Warn("failed to cache lookup tables", zap.Error(err))
		}
	}
	return t, nil
}

// validate rejects inputs the pipeline cannot even start on
func validate(in Input) error {
	var errs error
	if in.Recoded == nil || in.Recoded.Len() == 0 {
		errs = multierr.Append(errs, fmt.Errorf("no recoded genome"))
	}
	if in.Reference == nil || in.Reference.Len() == 0 {
		errs = multierr.Append(errs, fmt.Errorf("no reference genome"))
	}
	if in.Start < 0 {
		errs = multierr.Append(errs, fmt.Errorf("start %d is negative", in.Start))
	}
	if in.Start >= in.End {
		errs = multierr.Append(errs, fmt.Errorf("empty region [%d, %d)", in.Start, in.End))
	}
	if in.Recoded != nil && in.End > in.Recoded.Len() {
		errs = multierr.Append(errs, fmt.Errorf("region end %d is past the %d bp genome", in.End, in.Recoded.Len()))
	}
	return errs
}
