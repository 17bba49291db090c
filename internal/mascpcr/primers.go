package mascpcr

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hainesm6-learning/mascpcr/config"
	"github.com/hainesm6-learning/mascpcr/internal/primerdb"
	"github.com/hainesm6-learning/mascpcr/logger"
)

// PrimersListCmd prints every recorded run in the primer catalog
func PrimersListCmd(cmd *cobra.Command, args []string) {
	conf := config.New()
	db := openCatalog(conf)
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context())
	if err != nil {
		logger.Fatal("failed to list runs", zap.Error(err))
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "run\tcreated\tgenome\treference\tregion\tprimers")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t[%d, %d)\t%d\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Genome, r.Reference, r.Start, r.End, r.Primers)
	}
	w.Flush()
}

// PrimersFindCmd prints the cataloged primers whose sequence contains
// the query subsequence
func PrimersFindCmd(cmd *cobra.Command, args []string) {
	conf := config.New()
	db := openCatalog(conf)
	defer db.Close()

	query := strings.ToUpper(strings.TrimSpace(args[0]))
	primers, err := db.FindPrimers(cmd.Context(), query)
	if err != nil {
		logger.Fatal("failed to search the catalog", zap.Error(err))
	}
	if len(primers) == 0 {
		fmt.Printf("no cataloged primers contain %s\n", query)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "run\tbin\trole\tsequence\tstrand\ttm\tproduct")
	for _, p := range primers {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%.1f\t%d\n",
			p.RunID, p.Bin, p.Role, p.Seq, p.Strand, p.Tm, p.ProductSize)
	}
	w.Flush()
}

// PrimersDeleteCmd removes a recorded run and its primers
func PrimersDeleteCmd(cmd *cobra.Command, args []string) {
	conf := config.New()
	db := openCatalog(conf)
	defer db.Close()

	if err := db.DeleteRun(cmd.Context(), args[0]); err != nil {
		logger.Fatal("failed to delete run", zap.Error(err))
	}
	fmt.Printf("deleted run %s\n", args[0])
}

func openCatalog(conf *config.Config) *primerdb.DB {
	db, err := primerdb.Open(conf.Output.DBPath)
	if err != nil {
		logger.Fatal("failed to open the primer catalog",
			zap.String("path", conf.Output.DBPath),
			zap.Error(err))
	}
	return db
}
