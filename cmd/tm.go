package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hainesm6-learning/mascpcr/internal/mascpcr"
)

// tmCmd predicts melting temperatures for sequences passed on the command line
var tmCmd = &cobra.Command{
	Use:                        "tm [seq] ... [seqN]",
	Short:                      "Print melting and secondary-structure temperatures for oligos",
	Run:                        mascpcr.TmCmd,
	Args:                       cobra.MinimumNArgs(1),
	SuggestionsMinimumDistance: 2,
	PreRun: func(cmd *cobra.Command, args []string) {
		viper.BindPFlags(cmd.Flags())
	},
	Long: `
Predict the nearest-neighbor melting temperature, the strongest hairpin,
and the strongest self-dimer Tm of each sequence under the configured
reaction conditions.`,
	Example: "  mascpcr tm ACTGACCTAGTTGCTCAGTACA",
}

// set flags
func init() {
	f := tmCmd.Flags()

	f.Float64("mvconc", 50.0, "monovalent cation concentration (mM)")
	f.Float64("dvconc", 1.5, "divalent cation concentration (mM)")
	f.Float64("dntpconc", 0.8, "dNTP concentration (mM)")
	f.Float64("dnaconc", 50.0, "primer strand concentration (nM)")

	RootCmd.AddCommand(tmCmd)
}
