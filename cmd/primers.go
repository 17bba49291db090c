package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hainesm6-learning/mascpcr/internal/mascpcr"
)

// primersCmd groups the local primer catalog subcommands
var primersCmd = &cobra.Command{
	Use:                        "primers [list, find, delete]",
	Short:                      "Manage the local catalog of recorded primer sets",
	SuggestionsMinimumDistance: 2,
	Long: `
Browse and prune the runs recorded with 'design --record'. Each run keeps
its genome pair, region, settings snapshot, and every designed primer.`,
}

// primersListCmd prints the recorded runs
var primersListCmd = &cobra.Command{
	Use:                        "list",
	Short:                      "List recorded design runs",
	Run:                        mascpcr.PrimersListCmd,
	Args:                       cobra.NoArgs,
	SuggestionsMinimumDistance: 2,
	Aliases:                    []string{"ls"},
}

// primersFindCmd searches cataloged primers by subsequence
var primersFindCmd = &cobra.Command{
	Use:                        "find [subsequence]",
	Short:                      "Find recorded primers containing a subsequence",
	Run:                        mascpcr.PrimersFindCmd,
	Args:                       cobra.ExactArgs(1),
	SuggestionsMinimumDistance: 2,
	Example:                    "  mascpcr primers find ACTGATCTAG",
}

// primersDeleteCmd retires a recorded run
var primersDeleteCmd = &cobra.Command{
	Use:                        "delete [run]",
	Short:                      "Delete a recorded run and its primers",
	Run:                        mascpcr.PrimersDeleteCmd,
	Args:                       cobra.ExactArgs(1),
	SuggestionsMinimumDistance: 2,
	Aliases:                    []string{"rm", "remove"},
	Example:                    "  mascpcr primers delete f4f622f0-6aae-4efc-a4cc-33c111b0a81c",
}

// set flags
func init() {
	primersCmd.PersistentFlags().String("dbpath", "", "path to the primer catalog (default $HOME/.mascpcr/primers.db)")
	viper.BindPFlag("dbpath", primersCmd.PersistentFlags().Lookup("dbpath"))

	primersCmd.AddCommand(primersListCmd)
	primersCmd.AddCommand(primersFindCmd)
	primersCmd.AddCommand(primersDeleteCmd)

	RootCmd.AddCommand(primersCmd)
}
