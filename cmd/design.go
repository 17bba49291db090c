package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hainesm6-learning/mascpcr/internal/mascpcr"
)

// designCmd runs the primer design pipeline over a recoded/reference genome pair
var designCmd = &cobra.Command{
	Use:                        "design [recoded] [reference] [start] [end]",
	Short:                      "Design MASC-PCR primer sets across a recoded region",
	Run:                        mascpcr.DesignCmd,
	Args:                       cobra.ExactArgs(4),
	SuggestionsMinimumDistance: 2,
	PreRun: func(cmd *cobra.Command, args []string) {
		viper.BindPFlags(cmd.Flags())
	},
	Long: `
Design one allele-specific primer set per product-size bin across the
[start, end) region of the recoded genome: a discriminatory primer whose
3' end sits on a recoded base, a same-length wild-type counterpart, and
a shared partner primer placed to hit the bin's product size.

Genomes may be FASTA or GenBank. GenBank features contribute the border
annotations that bin boundaries try to respect.`,
	Example: "  mascpcr design recoded.gb wildtype.gb 0 90000",
}

// set flags
func init() {
	f := designCmd.Flags()

	// primer acceptance
	f.Float64("tmmin", 60.0, "lower bound of the accepted primer Tm range (C)")
	f.Float64("tmmax", 65.0, "upper bound of the accepted primer Tm range (C)")
	f.Int("minsize", 18, "minimum primer length (bp)")
	f.Int("maxsize", 30, "maximum primer length (bp)")
	f.Int("minmismatches", 1, "fewest allele mismatches a discriminatory primer must carry")
	f.Float64("tmclip", 40.0, "structure Tm above which a candidate is discarded (C)")
	f.IntSlice("mismatchweights", []int{5, 4, 4, 3, 3, 2, 1}, "score weights for mismatches by 3'-end offset")
	f.BoolP("lenient", "l", false, "keep best-effort candidates instead of enforcing hard cutoffs")

	// bin layout
	f.IntSlice("productsizes", []int{100, 150, 200, 250, 300, 400, 500, 600, 700, 850}, "target product size per bin (bp)")
	f.Int("sizetol", 25, "how far a product may deviate from its bin's target size (bp)")
	f.Int("offset", 10, "minimum distance between a partner primer and the bin boundary (bp)")
	f.Bool("strict", false, "abort the run instead of flagging an unsatisfiable bin")

	// coordinate mapping
	f.Int("anchorlen", 20, "bases of exact agreement to (re)anchor the genome pair")
	f.Int("maxshift", 500, "largest indel the coordinate walk may recover from (bp)")
	f.Int("clustergap", 6, "agreeing bases that split mismatches into separate edit clusters")
	f.StringSlice("bftypes", nil, "GenBank feature types treated as bin borders")
	f.StringSlice("bfregexs", nil, "regexes a border feature qualifier must match")

	// off-target scan
	f.Bool("offtarget", true, "reject primers with a secondary binding site in the recoded genome")
	f.Int("offtargetmm", 2, "mismatch budget for a site to count as off-target binding")
	f.Int("offtargetseed", 12, "exact-match 3' seed length used to locate candidate sites")

	// reaction conditions
	f.Float64("mvconc", 50.0, "monovalent cation concentration (mM)")
	f.Float64("dvconc", 1.5, "divalent cation concentration (mM)")
	f.Float64("dntpconc", 0.8, "dNTP concentration (mM)")
	f.Float64("dnaconc", 50.0, "primer strand concentration (nM)")

	// outputs
	f.StringP("outputfp", "o", ".", "directory that receives the report and workbook")
	f.StringP("outputbn", "b", "mascpcr", "basename for the report and workbook files")
	f.Bool("noreport", false, "skip the text report")
	f.Bool("noxlsx", false, "skip the xlsx workbook")
	f.BoolP("record", "r", false, "insert the run and its primers into the local catalog")
	f.String("dbpath", "", "path to the primer catalog (default $HOME/.mascpcr/primers.db)")

	// lookup-table cache
	f.String("cachedir", "", "directory holding cached lookup tables (default $HOME/.mascpcr/cache)")
	f.Bool("recache", false, "rebuild the lookup tables even when a cache entry matches")
	f.Bool("nocache", false, "disable the lookup-table cache")

	f.IntP("threads", "t", 0, "worker goroutines per bin; 0 means GOMAXPROCS")

	RootCmd.AddCommand(designCmd)
}
