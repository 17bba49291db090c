// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ThermoConfig holds the solution conditions handed to the
// thermodynamic calculator
type ThermoConfig struct {
	// monovalent cation concentration (mM)
	MvConc float64 `mapstructure:"mvconc"`

	// divalent cation concentration (mM)
	DvConc float64 `mapstructure:"dvconc"`

	// dNTP concentration (mM)
	DNTPConc float64 `mapstructure:"dntpconc"`

	// primer strand concentration (nM)
	DNAConc float64 `mapstructure:"dnaconc"`

	// entries kept in the Tm memoization cache
	TmCacheSize int `mapstructure:"tmcachesize"`
}

// PrimerConfig bounds the per-primer search
type PrimerConfig struct {
	// the lower bound of the accepted melting temperature range (C)
	TmMin float64 `mapstructure:"tmmin"`

	// the upper bound of the accepted melting temperature range (C)
	TmMax float64 `mapstructure:"tmmax"`

	// the minimum primer length (bp)
	MinSize int `mapstructure:"minsize"`

	// the maximum primer length (bp)
	MaxSize int `mapstructure:"maxsize"`

	// the smallest number of mismatches a discriminatory primer must
	// carry against the non-target genome
	MinMismatches int `mapstructure:"minmismatches"`

	// Tm above which a hairpin, homodimer or heterodimer disqualifies
	// a primer (C)
	SpuriousTmClip float64 `mapstructure:"tmclip"`

	// per-position score weights for mismatches, counted from the 3' end
	MismatchWeights []int `mapstructure:"mismatchweights"`

	// skip the 3' GC-clamp and hard thermo cutoffs; keeps best-effort
	// candidates for troubleshooting low-quality regions
	Lenient bool `mapstructure:"lenient"`
}

// BinConfig controls how the region of interest is partitioned
type BinConfig struct {
	// target PCR product size per bin, in bin order (bp)
	ProductSizes []int `mapstructure:"productsizes"`

	// how far a bin may deviate from its target product size (bp)
	SizeTolerance int `mapstructure:"sizetol"`

	// minimum distance between a partner primer and the bin boundary (bp)
	EdgeOffset int `mapstructure:"offset"`

	// abort the run instead of flagging a bin that cannot be satisfied
	Strict bool `mapstructure:"strict"`
}

// MapConfig tunes the recoded-to-reference coordinate walk
type MapConfig struct {
	// bases of exact agreement required to (re)anchor the two genomes
	AnchorLen int `mapstructure:"anchorlen"`

	// how far the walk may shift either genome to recover local alignment (bp)
	MaxShift int `mapstructure:"maxshift"`

	// mismatches separated by more than this many agreeing bases start a
	// new edit cluster
	ClusterGap int `mapstructure:"clustergap"`
}

// BorderConfig selects the annotation features merged into the border table
type BorderConfig struct {
	// feature types treated as borders; empty means the built-in set
	FeatureTypes []string `mapstructure:"bftypes"`

	// regexes a feature qualifier value must match; empty matches all
	QualifierRegexs []string `mapstructure:"bfregexs"`
}

// OfftargetConfig controls the whole-genome binding-site scan
type OfftargetConfig struct {
	// verify accepted primers have no secondary binding site
	Enabled bool `mapstructure:"offtarget"`

	// sites within this many mismatches of a primer count as binding
	MaxMismatches int `mapstructure:"offtargetmm"`

	// exact-match 3' seed length used to locate candidate sites
	SeedLen int `mapstructure:"offtargetseed"`
}

// OutputConfig is where and what the run writes
type OutputConfig struct {
	// directory that receives the report and workbook
	Dir string `mapstructure:"outputfp"`

	// basename for the report and workbook files
	Basename string `mapstructure:"outputbn"`

	// skip the human-readable report
	NoReport bool `mapstructure:"noreport"`

	// skip the xlsx workbook
	NoXLSX bool `mapstructure:"noxlsx"`

	// insert the run and its primers into the local catalog
	Record bool `mapstructure:"record"`

	// path to the sqlite primer catalog
	DBPath string `mapstructure:"dbpath"`

	// suppress the progress bar
	Quiet bool `mapstructure:"quiet"`
}

// CacheConfig controls the on-disk lookup-table cache
type CacheConfig struct {
	// directory holding cached lookup tables
	Dir string `mapstructure:"cachedir"`

	// rebuild the lookup tables even when a cache entry matches
	Recache bool `mapstructure:"recache"`

	// disable the cache entirely
	Disabled bool `mapstructure:"nocache"`
}

// Config is the root-level settings struct: every pipeline parameter with
// an explicit default, overridable from the settings file and the
// command line
type Config struct {
	Thermo    ThermoConfig    `mapstructure:",squash"`
	Primer    PrimerConfig    `mapstructure:",squash"`
	Bins      BinConfig       `mapstructure:",squash"`
	Map       MapConfig       `mapstructure:",squash"`
	Borders   BorderConfig    `mapstructure:",squash"`
	Offtarget OfftargetConfig `mapstructure:",squash"`
	Output    OutputConfig    `mapstructure:",squash"`
	Cache     CacheConfig     `mapstructure:",squash"`

	// worker goroutines scoring candidates within a bin; 0 means GOMAXPROCS
	Threads int `mapstructure:"threads"`
}

// SetDefaults seeds viper with the default value of every setting. Called
// before flags are bound so flag and file values win
func SetDefaults() {
	viper.SetDefault("mvconc", 50.0)
	viper.SetDefault("dvconc", 1.5)
	viper.SetDefault("dntpconc", 0.8)
	viper.SetDefault("dnaconc", 50.0)
	viper.SetDefault("tmcachesize", 16384)

	viper.SetDefault("tmmin", 60.0)
	viper.SetDefault("tmmax", 65.0)
	viper.SetDefault("minsize", 18)
	viper.SetDefault("maxsize", 30)
	viper.SetDefault("minmismatches", 1)
	viper.SetDefault("tmclip", 40.0)
	viper.SetDefault("mismatchweights", []int{5, 4, 4, 3, 3, 2, 1})
	viper.SetDefault("lenient", false)

	viper.SetDefault("productsizes", []int{100, 150, 200, 250, 300, 400, 500, 600, 700, 850})
	viper.SetDefault("sizetol", 25)
	viper.SetDefault("offset", 10)
	viper.SetDefault("strict", false)

	viper.SetDefault("anchorlen", 20)
	viper.SetDefault("maxshift", 500)
	viper.SetDefault("clustergap", 6)

	viper.SetDefault("bftypes", []string{})
	viper.SetDefault("bfregexs", []string{})

	viper.SetDefault("offtarget", true)
	viper.SetDefault("offtargetmm", 2)
	viper.SetDefault("offtargetseed", 12)

	viper.SetDefault("outputfp", ".")
	viper.SetDefault("outputbn", "mascpcr")
	viper.SetDefault("noreport", false)
	viper.SetDefault("noxlsx", false)
	viper.SetDefault("record", false)
	viper.SetDefault("dbpath", filepath.Join(appDir(), "primers.db"))
	viper.SetDefault("quiet", false)

	viper.SetDefault("cachedir", filepath.Join(appDir(), "cache"))
	viper.SetDefault("recache", false)
	viper.SetDefault("nocache", false)

	viper.SetDefault("threads", 0)
}

// New returns a Config populated from Viper: defaults, then the settings
// file, then bound command-line flags
func New() *Config {
	SetDefaults()

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("unable to decode settings: %v", err)
	}
	return c
}

// appDir is the per-user mascpcr directory (created on first use)
func appDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".mascpcr")
	_ = os.MkdirAll(dir, 0755)
	return dir
}
